package config

import (
	"bullion/log"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type config struct {
	// MySQL configs.
	User     string
	Password string
	Hostname string
	Port     string
	Database string

	// Label sets log output prefix.
	Label string

	RPCs []string `mapstructure:"rpc_url"`

	// Workers sets the number of goroutines fetching per-kind events
	// inside one sync window. Recommend value: 3.
	Workers int

	// Sync holds event synchronizer parameters.
	Sync SyncConfig

	// AliyunMail is an optional config which will be used in mail alert package.
	AliyunMail AliyunMailConfig `mapstructure:"aliyun_mail"`
}

// SyncConfig is the struct for event synchronizer configs.
type SyncConfig struct {
	// IntervalSec is the polling interval when fully caught up.
	IntervalSec int `mapstructure:"interval_sec"`
	// WindowSize bounds how many blocks one poll may cover,
	// chosen to stay under the nodes' per-request result limits.
	WindowSize uint64 `mapstructure:"window_size"`
	// GenesisBlock is the backfill start for a cold store.
	// Negative means: start at the ledger's current head (skip history).
	GenesisBlock int64 `mapstructure:"genesis_block"`
	// BackoffCeilingSec caps the delay between failed polls.
	BackoffCeilingSec int `mapstructure:"backoff_ceiling_sec"`
	// AlertAfterFailures sends an operator mail once this many
	// consecutive transport failures accumulate.
	AlertAfterFailures int `mapstructure:"alert_after_failures"`
}

// AliyunMailConfig is the struct for aliyun mail configs.
type AliyunMailConfig struct {
	AccountName     string
	Region          string
	AccessKeyID     string
	AccessKeySecret string
	Receiver        []string
}

var cfg config

// Load creates a single.
func Load(display bool) {
	viper.SetConfigName("config")
	viper.AddConfigPath("./config")
	// Incase test cases require loading configs.
	viper.AddConfigPath("../config")

	if err := load(display); err != nil {
		panic(err)
	}

	if err := check(); err != nil {
		panic(err)
	}

	update()

	log.UpdatePrefix(GetLabel())

	viper.WatchConfig()
	viper.OnConfigChange(onConfigChange)
}

func load(display bool) error {
	err := viper.ReadInConfig()
	if err != nil {
		return err
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return err
	}

	if display {
		configContent, _ := json.MarshalIndent(cfg, "", "    ")
		log.Println(string(configContent))
	}

	return nil
}

func update() {
	for i := 0; i < len(cfg.RPCs); i++ {
		rpc := cfg.RPCs[i]
		if !strings.HasPrefix(rpc, "http") {
			cfg.RPCs[i] = "http://" + rpc
		}
	}

	if cfg.Sync.IntervalSec == 0 {
		cfg.Sync.IntervalSec = 5
	}
	if cfg.Sync.WindowSize == 0 {
		cfg.Sync.WindowSize = 100
	}
	if cfg.Sync.BackoffCeilingSec == 0 {
		cfg.Sync.BackoffCeilingSec = 60
	}
	if cfg.Sync.AlertAfterFailures == 0 {
		cfg.Sync.AlertAfterFailures = 10
	}
}

// GetDbConnStr returns mysql connection string.
func GetDbConnStr() string {
	str := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s",
		cfg.User,
		cfg.Password,
		cfg.Hostname,
		cfg.Port,
		cfg.Database,
	)

	params := []string{
		"charset=utf8",
		"parseTime=True",
		"loc=Local",
		"maxAllowedPacket=52428800",
		"multiStatements=True",
	}

	if len(params) > 0 {
		str = fmt.Sprintf("%s?%s", str, strings.Join(params, "&"))
	}

	return str
}

// GetLabel returns custome label as console output prefix.
func GetLabel() string {
	return cfg.Label
}

// GetRPCs returns all rpc urls from config.
func GetRPCs() []string {
	return cfg.RPCs
}

// GetGoroutines returns the number of working goroutines.
func GetGoroutines() int {
	return cfg.Workers
}

// GetSync returns event synchronizer configs.
func GetSync() SyncConfig {
	return cfg.Sync
}

// LoadAliyunMailConfig performs a basic check on aliyun mail config.
func LoadAliyunMailConfig() error {
	if err := checkAliyunMail(); err != nil {
		return err
	}

	return nil
}

// GetAliyunMailConfig returns aliyun mail configs.
func GetAliyunMailConfig() AliyunMailConfig {
	return cfg.AliyunMail
}

func check() error {
	if err := checkWorker(); err != nil {
		return err
	}

	if err := checkRPCs(); err != nil {
		return err
	}

	return nil
}

func checkWorker() error {
	if cfg.Workers < 1 {
		return errors.New("value of 'workers' must greater than or equal to 1")
	}
	return nil
}

func checkRPCs() error {
	if len(cfg.RPCs) < 1 {
		return errors.New("at least 1 rpc server url must be set")
	}

	for _, rpc := range cfg.RPCs {
		if strings.HasPrefix(rpc, "http") {
			u, err := url.Parse(rpc)
			if err != nil {
				return err
			}
			rpc = u.Host
		}

		_, _, err := net.SplitHostPort(rpc)
		if err != nil {
			return err
		}
	}

	return nil
}

func checkAliyunMail() error {
	m := cfg.AliyunMail

	if m.AccountName == "" {
		return errors.New("aliyun mail account name cannot be empty")
	}

	if m.Region == "" {
		return errors.New("aliyun mail region cannot be empty")
	}

	if m.AccessKeyID == "" {
		return errors.New("aliyun mail accessKeyID cannot be empty")
	}

	if m.AccessKeySecret == "" {
		return errors.New("aliyun mail accessKeySecret cannot be empty")
	}

	if len(m.Receiver) == 0 {
		return errors.New("aliyun mail receiver cannot be empty")
	}

	return nil
}

func onConfigChange(e fsnotify.Event) {
	log.Printf("Config file change detected: %s", e.Name)

	const stdErr = "Failed to read new configuration, current configuration stay unchanged"

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("%s: %s", stdErr, err)
		return
	}

	if err := load(true); err != nil {
		log.Printf("%s: %s", stdErr, err)
		return
	}

	if err := check(); err != nil {
		log.Printf("%s: %s", stdErr, err)
		return
	}

	log.UpdatePrefix(GetLabel())
}
