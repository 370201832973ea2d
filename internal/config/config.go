package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	IPFS    IPFSConfig    `mapstructure:"ipfs"`
	Chain   ChainConfig   `mapstructure:"chain"`
	Contest ContestConfig `mapstructure:"contest"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

type IPFSConfig struct {
	GatewayBaseURL string `mapstructure:"gateway_base_url"`
	PinataEndpoint string `mapstructure:"pinata_endpoint"`
	PinataJWT      string `mapstructure:"pinata_jwt"`
}

type ChainConfig struct {
	RPCURL          string `mapstructure:"rpc_url"`
	ChainID         int64  `mapstructure:"chain_id"`
	ContractAddress string `mapstructure:"contract_address"`
	AdminKey        string `mapstructure:"admin_key"`
	GasLimit        uint64 `mapstructure:"gas_limit"`
}

type ContestConfig struct {
	// Epoch is the Sunday 00:00 that week 1 starts on, as YYYY-MM-DD
	// interpreted in Timezone.
	Epoch    string `mapstructure:"epoch"`
	Timezone string `mapstructure:"timezone"`

	// Both window checks were disabled at the call sites of the system
	// this replaces, so enforcement defaults to off.
	EnforceSubmissionWindow bool `mapstructure:"enforce_submission_window"`
	EnforceVotingWindow     bool `mapstructure:"enforce_voting_window"`

	WeeklyPublishEnabled bool   `mapstructure:"weekly_publish_enabled"`
	WeeklyPublishCron    string `mapstructure:"weekly_publish_cron"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Load reads the optional yaml file at configPath and overlays environment
// variables (dots become underscores, e.g. CHAIN_RPC_URL, IPFS_PINATA_JWT).
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 3001)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("storage.data_dir", "./data")
	v.SetDefault("ipfs.gateway_base_url", "https://gateway.pinata.cloud/ipfs")
	v.SetDefault("ipfs.pinata_endpoint", "https://api.pinata.cloud/pinning/pinFileToIPFS")
	v.SetDefault("chain.chain_id", 80002)
	v.SetDefault("chain.gas_limit", 3_000_000)
	v.SetDefault("contest.epoch", "2025-01-05")
	v.SetDefault("contest.timezone", "America/New_York")
	v.SetDefault("contest.enforce_submission_window", false)
	v.SetDefault("contest.enforce_voting_window", false)
	v.SetDefault("contest.weekly_publish_enabled", false)
	v.SetDefault("contest.weekly_publish_cron", "0 5 0 * * 0")
	v.SetDefault("cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// ChainEnabled reports whether enough chain configuration is present to
// talk to the RPC endpoint.
func (c *Config) ChainEnabled() bool {
	return c.Chain.RPCURL != "" && c.Chain.ContractAddress != ""
}
