// Package messaging is a small broker-agnostic publish/consume API with
// drivers for NATS, NSQ, Kafka and Google Pub/Sub.
//
// Headers are string pairs on every driver. Kafka, NATS and Pub/Sub carry them
// natively; NSQ has no header support, so the NSQ driver wraps the body in a
// JSON frame.
package messaging
