package config

var defaults = map[string]any{
	"secret":    "",
	"log_level": "info",
	"listen":    ":8080",

	"auth_ttl":      8, // hours
	"gate_pass_ttl": 15,
	"otp_ttl":       5,
	"otp_store":     "memory",

	"hourly_rate": 1000,

	"smtp.host":     "host.docker.internal",
	"smtp.port":     25,
	"smtp.username": "",
	"smtp.password": "",
	"smtp.from":     "noreply@example.com",
	"smtp.timeout":  10,

	"storage.sqlite.path": "./data/parking.db",
}

func Defaults() map[string]any {
	values := make(map[string]any)
	for k, v := range defaults {
		values[k] = v
	}
	return values
}
