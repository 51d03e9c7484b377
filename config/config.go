package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Session   SessionConfig   `mapstructure:"session"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Search    SearchConfig    `mapstructure:"search"`
	Community CommunityConfig `mapstructure:"community"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// BackendConfig 远端服务地址（主 API、聊天机器人、答卷分析）
type BackendConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	ChatbotURL  string        `mapstructure:"chatbot_url"`
	AnalysisURL string        `mapstructure:"analysis_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// SessionConfig 会话存储方式: memory | redis | file
type SessionConfig struct {
	Store      string        `mapstructure:"store"`
	FilePath   string        `mapstructure:"file_path"`
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
	Secret     string        `mapstructure:"secret"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

type RateLimitConfig struct {
	LoginPerMinute    int  `mapstructure:"login_per_minute"`
	RegisterPerMinute int  `mapstructure:"register_per_minute"`
	MutationPerMinute int  `mapstructure:"mutation_per_minute"`
	APIPerMinute      int  `mapstructure:"api_per_minute"`
	FailOpen          bool `mapstructure:"fail_open"`
}

type SearchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// CommunityConfig 社区相关开关
// InferRoles 为 true 时，后端未返回角色的群组按创建者推断角色
type CommunityConfig struct {
	InferRoles bool `mapstructure:"infer_roles"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("backend.base_url", "http://localhost:8085")
	v.SetDefault("backend.chatbot_url", "https://pivot-qg4z.onrender.com")
	v.SetDefault("backend.analysis_url", "https://pivot-hdps.vercel.app")
	v.SetDefault("backend.timeout", 15*time.Second)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)

	v.SetDefault("session.store", "memory")
	v.SetDefault("session.file_path", "")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.cookie_name", "cario_session")
	v.SetDefault("session.secret", "change-me")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("ratelimit.login_per_minute", 10)
	v.SetDefault("ratelimit.register_per_minute", 5)
	v.SetDefault("ratelimit.mutation_per_minute", 60)
	v.SetDefault("ratelimit.api_per_minute", 300)
	v.SetDefault("ratelimit.fail_open", true)

	v.SetDefault("search.debounce", 300*time.Millisecond)
	v.SetDefault("community.infer_roles", false)
}

// LoadConfig 读取配置文件并叠加 CARIO_* 环境变量
// path 为空或文件不存在时使用默认值
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("cario")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("读取配置文件失败: %w", err)
			}
		}
	}

	// 将配置反序列化到结构体
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate 检查必填项
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return errors.New("backend.base_url 不能为空")
	}
	switch c.Session.Store {
	case "memory", "redis", "file":
	default:
		return fmt.Errorf("未知的 session.store: %q", c.Session.Store)
	}
	if c.Search.Debounce < 0 {
		return errors.New("search.debounce 不能为负数")
	}
	return nil
}

// RedisAddr 返回 host:port
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
