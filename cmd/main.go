// cmd/main.go
package main

import (
	"auth-service/app"
)

// @title           Auth Service API
// @version         1.0
// @description     Registration, login and refresh-token session management.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:5501
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
