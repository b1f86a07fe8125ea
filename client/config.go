package client

import (
	"flag"
	"fmt"
	"io/ioutil"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const DefaultReporter = "quat"

var (
	configFile         string
	buildEndpoint      string
	testReportEndpoint string
	token              string
	workspace          string
	selectedReporter   string
	httpTimeout        time.Duration
	debug              bool
)

// Config holds the global settings of the notifier: where the reporting
// service lives and how to authenticate against it. It is loaded once per
// process and must not be modified while a build is being reported.
type Config struct {
	BuildEndpoint      string        `yaml:"quatApi"`
	TestReportEndpoint string        `yaml:"quatReportApi"`
	Token              string        `yaml:"token"`
	Workspace          string        `yaml:"workspace"`
	Reporter           string        `yaml:"reporter"`
	HTTPTimeout        time.Duration `yaml:"httpTimeout"`
	Debug              bool          `yaml:"debug"`
}

func LoadConfig(content []byte) (*Config, error) {
	r := &Config{}
	if err := yaml.Unmarshal(content, r); err != nil {
		return nil, err
	}
	r.normalize()
	return r, nil
}

// ReadConfigFile loads settings from a YAML file. A missing file yields an
// empty config rather than an error.
func ReadConfigFile(filename string) (*Config, error) {
	data, err := ioutil.ReadFile(filename)
	if os.IsNotExist(err) {
		return &Config{Reporter: DefaultReporter}, nil
	}
	if err != nil {
		return nil, err
	}
	return LoadConfig(data)
}

func (c *Config) normalize() {
	c.BuildEndpoint = strings.TrimSpace(c.BuildEndpoint)
	c.TestReportEndpoint = strings.TrimSpace(c.TestReportEndpoint)
	if c.Reporter == "" {
		c.Reporter = DefaultReporter
	}
}

// Validate checks that the configured endpoints are usable. The test report
// endpoint is optional here since it is only needed when a report is sent.
func (c *Config) Validate() error {
	if c.BuildEndpoint == "" {
		return fmt.Errorf("Missing required configuration: quat-api")
	}
	if err := checkEndpoint(c.BuildEndpoint); err != nil {
		return fmt.Errorf("Invalid quat-api: %s", err)
	}
	if c.TestReportEndpoint != "" {
		if err := checkEndpoint(c.TestReportEndpoint); err != nil {
			return fmt.Errorf("Invalid quat-report-api: %s", err)
		}
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http-timeout must not be negative")
	}
	return nil
}

func checkEndpoint(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q is not an http(s) URL", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

// GetConfig builds the process config: the settings file named by -config
// first, then any flag given explicitly on the command line on top of it.
func GetConfig() (*Config, error) {
	conf := &Config{Reporter: DefaultReporter}
	if configFile != "" {
		var err error
		if conf, err = ReadConfigFile(configFile); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "quat-api":
			conf.BuildEndpoint = buildEndpoint
		case "quat-report-api":
			conf.TestReportEndpoint = testReportEndpoint
		case "token":
			conf.Token = token
		case "workspace":
			conf.Workspace = workspace
		case "reporter":
			conf.Reporter = selectedReporter
		case "http-timeout":
			conf.HTTPTimeout = httpTimeout
		case "debug":
			conf.Debug = debug
		}
	})
	conf.normalize()

	return conf, nil
}

func init() {
	flag.StringVar(&configFile, "config", "", "YAML file holding the global notifier settings")
	flag.StringVar(&buildEndpoint, "quat-api", "", "URL of the build ingestion endpoint")
	flag.StringVar(&testReportEndpoint, "quat-report-api", "", "URL of the test report endpoint")
	flag.StringVar(&token, "token", "", "Token sent with every upload")
	flag.StringVar(&workspace, "workspace", "", "Workspace used to resolve relative report paths")
	flag.StringVar(&selectedReporter, "reporter", DefaultReporter, "Reporter to use")
	flag.DurationVar(&httpTimeout, "http-timeout", 0, "Timeout for each upload request (0 waits forever)")
	flag.BoolVar(&debug, "debug", false, "Log uploads instead of sending them")
}
