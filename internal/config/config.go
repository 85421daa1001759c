package config

import (
	"os"
	"time"

	"github.com/go-yaml/yaml"

	"github.com/purfacted/purfacted/internal/domain"
)

type Config struct {
	Server    Server    `yaml:"server"`
	Consensus Consensus `yaml:"consensus"`
}

type Server struct {
	ListenAddr      string `yaml:"listenAddr"`
	PostgresDsn     string `yaml:"postgresDsn"`
	RedisAddr       string `yaml:"redisAddr"`
	RedisPassword   string `yaml:"redisPassword"`
	RedisDB         int    `yaml:"redisDB"`
	MemcachedAddr   string `yaml:"memcachedAddr"`
	DebounceBackend string `yaml:"debounceBackend"` // memory, redis, memcached
	EnableTrace     bool   `yaml:"enableTrace"`
	TraceEndpoint   string `yaml:"traceEndpoint"`
}

// Consensus tunables are pointers so an explicit zero stays distinguishable
// from an absent field.
type Consensus struct {
	MinVotesClaim      *int     `yaml:"minVotesClaim"`
	ProvenThreshold    *float64 `yaml:"provenThreshold"`
	DisprovenThreshold *float64 `yaml:"disprovenThreshold"`
	MinVotesDispute    *int     `yaml:"minVotesDispute"`
	ApprovalThreshold  *float64 `yaml:"approvalThreshold"`
	DebounceIntervalMs *int     `yaml:"debounceIntervalMs"`
}

// Thresholds converts the tunables into the domain representation, filling
// platform defaults for anything left unset.
func (c Consensus) Thresholds() domain.Thresholds {
	th := domain.DefaultThresholds()
	if c.MinVotesClaim != nil {
		th.MinVotesClaim = *c.MinVotesClaim
	}
	if c.ProvenThreshold != nil {
		th.ProvenThreshold = *c.ProvenThreshold
	}
	if c.DisprovenThreshold != nil {
		th.DisprovenThreshold = *c.DisprovenThreshold
	}
	if c.MinVotesDispute != nil {
		th.MinVotesDispute = *c.MinVotesDispute
	}
	if c.ApprovalThreshold != nil {
		th.ApprovalThreshold = *c.ApprovalThreshold
	}
	if c.DebounceIntervalMs != nil {
		th.DebounceInterval = time.Duration(*c.DebounceIntervalMs) * time.Millisecond
	}
	return th
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.ListenAddr == "" {
		config.Server.ListenAddr = ":8000"
	}
	if config.Server.DebounceBackend == "" {
		config.Server.DebounceBackend = "memory"
	}

	return config, nil
}
