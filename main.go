package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/paydota/internal/app"
)

// @title           PayDota OTP API
// @version         1.0
// @description     PayDota issues and verifies one-time passwords delivered over WhatsApp.
// @contact.name    PayDota Support
// @contact.email   support@paydota.com
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
func main() {
	application := app.New()
	wait := application.Start()
	<-wait
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx)
}
