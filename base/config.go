package base

import (
	"shanchuan/pkg/core/logger"
	"shanchuan/pkg/core/start"
	"shanchuan/pkg/oss"
	"shanchuan/pkg/scheduler"

	"github.com/bsm/redislock"
	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	Configures *start.Configures
	Logger     *logger.Log
	ENV        string
	DB         *gorm.DB
	RDB        *redis.Client
	Cache      *cache.Cache
	Locker     *redislock.Client
	OSS        *oss.AliyunService
	Scheduler  *scheduler.Scheduler
)
