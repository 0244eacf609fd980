// Package mail sends email. Callers depend on the Mail interface; SMTP is the
// gomail-backed implementation.
package mail
