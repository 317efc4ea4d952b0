package start

import (
	"fmt"
	"net"

	"shanchuan/pkg/core/config"
	"shanchuan/pkg/core/logger"
	"shanchuan/utils"

	"github.com/bsm/redislock"
	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type Config struct {
	AppName  string                `yaml:"app-name"`
	Env      string                `yaml:"env"`
	Host     string                `yaml:"host"`
	Port     int                   `yaml:"port"`
	Domain   string                `yaml:"domain"`
	Log      config.LogConfig      `yaml:"log"`
	Redis    config.RedisConfig    `yaml:"redis"`
	Database config.Database       `yaml:"db"`
	Oss      config.OssConfig      `yaml:"oss"`
	Proxy    config.ProxyConfig    `yaml:"proxy"`
	Transfer config.TransferConfig `yaml:"transfer"`
}

type Configures struct {
	Config Config
	Logger *logger.Log
}

func NewConfigures(file []byte, env string) *Configures {
	var cfg Config
	err := yaml.Unmarshal(file, &cfg)
	if err != nil {
		panic(fmt.Sprintf("读取文件信息失败，因为%v", err))
	}

	if msg, err := utils.Validate(&cfg); err != nil {
		panic(fmt.Sprintf("配置文件校验失败：%s", msg))
	}

	cfg.Env = env
	cfg.Host, _ = getLocalIP()

	level := cfg.Log.Level
	if level == "" {
		level = "debug"
	}

	c := &Configures{
		Config: cfg,
		Logger: logger.InitLogger(level),
	}

	if cfg.Log.Sls {
		c.Logger.Send2Cloud(cfg.AppName, cfg.Host, cfg.Log)
	}

	return c
}

// getLocalIP 获取本机IP地址（优先获取内网IP）
func getLocalIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}

	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				if ipnet.IP.IsPrivate() {
					return ipnet.IP.String(), nil
				}
			}
		}
	}

	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}

	return "127.0.0.1", nil
}

func (c *Configures) EnableRedis() *redis.Client {
	return config.InitRDB(c.Config.Redis, c.Config.Proxy)
}

func (c *Configures) EnableCache(rdb *redis.Client) *cache.Cache {
	return config.InitCache(rdb)
}

func (c *Configures) EnableLocker(rdb *redis.Client) *redislock.Client {
	return redislock.New(rdb)
}

func (c *Configures) EnablePg() *gorm.DB {
	db, err := config.InitPg(c.Config.Database, c.Config.Proxy)
	if err != nil {
		c.Logger.WithField("database", c.Config.Database.Host).WithField("err", err).Panic("failed connect database")
	}
	c.Logger.Info("connect database success")
	return db
}

func (c *Configures) EnableMysql() *gorm.DB {
	db, err := config.InitMysql(c.Config.Database, c.Config.Proxy)
	if err != nil {
		c.Logger.WithField("database", c.Config.Database.Host).WithField("err", err).Panic("failed connect database")
	}
	c.Logger.Info("connect database success")
	return db
}
