package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Name is used for OTEL as an application identifier
	Name string `yaml:"name" json:"name" env:"APP_NAME" env-default:"zencmmn"`
	// HttpServer configures the public REST server
	HttpServer HttpServer `yaml:"httpServer" json:"httpServer"`
	Tracing    Tracing    `yaml:"tracing" json:"tracing"`
	Compiler   Compiler   `yaml:"compiler" json:"compiler"`
	Deploy     Deploy     `yaml:"deploy" json:"deploy"`
}

type HttpServer struct {
	Context string `yaml:"context" json:"context" env:"REST_API_CONTEXT" env-default:"/"`
	Addr    string `yaml:"addr" json:"addr" env:"REST_API_ADDR" env-default:":8080"`
}

type Tracing struct {
	Enabled  bool   `yaml:"enabled" json:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	Endpoint string `yaml:"endpoint" json:"endpoint" env:"OTEL_ENDPOINT" env-default:"localhost:4318"`
	Insecure bool   `yaml:"insecure" json:"insecure" env:"OTEL_INSECURE" env-default:"true"`
	Name     string `yaml:"name" json:"name" env:"OTEL_NAME"`
	// TransferHeaders are request headers copied into the request span and context
	TransferHeaders []string `yaml:"transferHeaders" json:"transferHeaders" env:"OTEL_TRANSFER_HEADERS" env-separator:","`
}

type Compiler struct {
	// PrecompileScripts compiles javascript listener scripts during deployment
	PrecompileScripts   bool          `yaml:"precompileScripts" json:"precompileScripts" env:"COMPILER_PRECOMPILE_SCRIPTS" env-default:"false"`
	DefinitionCacheSize int           `yaml:"definitionCacheSize" json:"definitionCacheSize" env:"COMPILER_DEFINITION_CACHE_SIZE" env-default:"256"`
	DefinitionCacheTtl  time.Duration `yaml:"definitionCacheTtl" json:"definitionCacheTtl" env:"COMPILER_DEFINITION_CACHE_TTL" env-default:"1h"`
}

type Deploy struct {
	// Dir holds *.cmmn documents deployed on startup, empty disables startup deployment
	Dir string `yaml:"dir" json:"dir" env:"DEPLOY_DIR"`
}

func (c Config) defaults() Config {
	if c.Tracing.Name == "" {
		c.Tracing.Name = c.Name
	}
	return c
}

// String renders the effective configuration as yaml.
func (c Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%+v", c)
	}
	return string(out)
}

func InitConfig() Config {
	c, err := ReadConfig(configFileName())
	if err != nil {
		fmt.Printf("Error occurred while reading the configuration: %s\n", err)
		panic(err)
	}
	return c
}

// ReadConfig reads the configuration from fileName or, when the file does not exist, from ENV.
func ReadConfig(fileName string) (Config, error) {
	c := Config{}
	var err error
	if _, perr := os.Stat(fileName); errors.Is(perr, os.ErrNotExist) {
		err = cleanenv.ReadEnv(&c)
		fmt.Printf("Configuration file %s not found. Reading config from ENV.\n", fileName)
	} else {
		err = cleanenv.ReadConfig(fileName, &c)
	}
	if err != nil {
		return c, err
	}
	return c.defaults(), nil
}

func configFileName() string {
	confFile := os.Getenv("CONFIG_FILE")
	if confFile != "" {
		return confFile
	}
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%s/conf.yaml", wd)
}
