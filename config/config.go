package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Game     GameConfig     `mapstructure:"game"`
	Rules    RulesConfig    `mapstructure:"rules"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	Debug    bool   `mapstructure:"debug"`
	AdminKey string `mapstructure:"admin_key"`
	// AdminWhitelist restricts admin routes to these client IPs when set.
	AdminWhitelist []string `mapstructure:"admin_whitelist"`
}

type DatabaseConfig struct {
	Mode         string        `mapstructure:"mode"` // memory | sqlite | mysql
	SQLitePath   string        `mapstructure:"sqlite_path"`
	MySQLDSN     string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife time.Duration `mapstructure:"mysql_max_life"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
}

type GameConfig struct {
	// DataPath points at the directory holding the EXCEED data tables
	// (armors.json, weapons.json, shields.json, skills.json, spells.json,
	// perks.json, spell_upgrades.json).
	DataPath string `mapstructure:"data_path"`
	// MaxCharacters caps how many characters one account may keep.
	MaxCharacters    int `mapstructure:"max_characters"`
	StartingCombatXP int `mapstructure:"starting_combat_xp"`
	StartingSocialXP int `mapstructure:"starting_social_xp"`
	StartingMoney    int `mapstructure:"starting_money"`
	// StowedWeightReduction is subtracted from the total stowed weight
	// before encumbrance is computed (floored at zero).
	StowedWeightReduction int `mapstructure:"stowed_weight_reduction"`
}

type RulesConfig struct {
	Dir      string        `mapstructure:"dir"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type SecurityConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTTTLH        time.Duration `mapstructure:"jwt_ttl_h"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("database.mode", "sqlite")
	v.SetDefault("database.sqlite_path", "./data/sheets.db")
	v.SetDefault("database.mysql_max_open", 50)
	v.SetDefault("database.mysql_max_idle", 10)
	v.SetDefault("database.mysql_max_life", "1h")
	v.SetDefault("cache.local_gc_interval", "30s")
	v.SetDefault("game.data_path", "./data")
	v.SetDefault("game.max_characters", 10)
	v.SetDefault("game.starting_combat_xp", 0)
	v.SetDefault("game.starting_social_xp", 0)
	v.SetDefault("game.starting_money", 0)
	v.SetDefault("game.stowed_weight_reduction", 2)
	v.SetDefault("rules.dir", "./data/rules")
	v.SetDefault("rules.cache_ttl", "10m")
	v.SetDefault("security.jwt_ttl_h", "72h")
	v.SetDefault("security.rate_limit_rps", 100)
	v.SetDefault("security.rate_limit_burst", 200)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
