package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`

	JWT struct {
		Secret    string `mapstructure:"secret"`
		ExpiresIn int    `mapstructure:"expires_in"` // hours
	} `mapstructure:"jwt"`

	Gemini struct {
		APIKey    string `mapstructure:"api_key"`
		TextModel string `mapstructure:"text_model"`
		TTSModel  string `mapstructure:"tts_model"`
	} `mapstructure:"gemini"`
}

// Load reads config.yaml and overlays environment variables
// (BEEB_GEMINI_API_KEY etc.).
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("beeb")
	viper.AutomaticEnv()
	viper.BindEnv("gemini.api_key", "BEEB_GEMINI_API_KEY", "GEMINI_API_KEY")
	viper.BindEnv("jwt.secret", "BEEB_JWT_SECRET")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("jwt.expires_in", 72)
	viper.SetDefault("gemini.text_model", "gemini-2.5-flash")
	viper.SetDefault("gemini.tts_model", "gemini-2.5-flash-preview-tts")

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; env + defaults must be enough.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
