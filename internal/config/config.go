package config

type Config struct {
	SiteTitle       string `mapstructure:"siteTitle"`
	BaseURL         string `mapstructure:"baseURL"`
	ContentDir      string `mapstructure:"contentDir"`
	LayoutsDir      string `mapstructure:"layoutsDir"`
	StaticDir       string `mapstructure:"staticDir"`
	OutputDir       string `mapstructure:"outputDir"`
	DataDir         string `mapstructure:"dataDir"`
	Personalization string `mapstructure:"personalization"`
	Port            int    `mapstructure:"port"`
	Development     bool   `mapstructure:"development"`
}
