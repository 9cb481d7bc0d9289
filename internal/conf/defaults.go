// defaults.go: default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// setDefaultConfig sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "kokorolog")
	viper.SetDefault("main.timezone", "")

	viper.SetDefault("journal.lookbackdays", 30)
	viper.SetDefault("journal.reviewdays", 7)
	viper.SetDefault("journal.maxnextactions", 8)

	viper.SetDefault("weather.provider", "openmeteo")
	viper.SetDefault("weather.latitude", 0.000)
	viper.SetDefault("weather.longitude", 0.000)
	viper.SetDefault("weather.debug", false)
	viper.SetDefault("weather.pollinterval", 60)

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.debug", false)

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "kokorolog.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "kokorolog")
	viper.SetDefault("output.mysql.password", "secret")
	viper.SetDefault("output.mysql.database", "kokorolog")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")
}
