// Package clock provides the time source used by the OTP engine and the
// notification module.
//
// Business code reads time through Clocker. Production wiring uses
// TimeClocker; tests drive expiry windows with Manual.
package clock
