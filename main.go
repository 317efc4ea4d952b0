package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"shanchuan/app"
	"shanchuan/base"
	"shanchuan/pkg/core/start"
	"shanchuan/pkg/db"
	"shanchuan/pkg/oss"
	"shanchuan/pkg/scheduler"
	"shanchuan/router"
)

func main() {
	env, filename := getBaseInfo()

	file, err := os.ReadFile(filename)
	if err != nil {
		panic(fmt.Sprintf("读取配置文件失败,因为：%v", err))
	}

	configures := start.NewConfigures(file, env)
	base.Configures = configures
	base.Logger = configures.Logger
	base.ENV = env

	// 存储模式为 oss 时才初始化 OSS 服务
	if configures.Config.Transfer.StorageMode == "oss" {
		base.OSS, err = oss.InitAliyunOSS(context.Background(), &configures.Config.Oss)
		if err != nil {
			configures.Logger.Panic(err)
		}
	}

	base.DB = configures.EnableMysql()

	// 执行数据库迁移
	if err := db.AutoMigrate(base.DB); err != nil {
		configures.Logger.Panic(fmt.Sprintf("数据库迁移失败: %v", err))
	}

	base.RDB = configures.EnableRedis()
	base.Cache = configures.EnableCache(base.RDB)
	base.Locker = configures.EnableLocker(base.RDB)

	base.Scheduler = scheduler.NewScheduler(base.Locker, scheduler.DefaultConfig())
	if err := base.Scheduler.Start(); err != nil {
		configures.Logger.Panic(fmt.Sprintf("启动调度器失败: %v", err))
	}

	if env == "dev" {
		// 开发环境下添加数据库保活任务，防止代理超时导致连接断开
		keepAliveTask := scheduler.NewIntervalTask(
			"数据库连接保活",
			time.Now(),
			10*time.Second,
			scheduler.ExecuteModeLocal,
			5*time.Second,
			func(ctx context.Context) error {
				sqlDB, err := base.DB.DB()
				if err != nil {
					base.Logger.WithErr(err).Error("获取数据库连接失败")
					return err
				}
				if err := sqlDB.Ping(); err != nil {
					base.Logger.WithErr(err).Error("数据库Ping失败")
					return err
				}
				return nil
			},
		)
		if err := base.Scheduler.AddTask(keepAliveTask); err != nil {
			configures.Logger.Panic(fmt.Sprintf("添加数据库保活任务失败: %v", err))
		}
		base.Logger.Info("已启动数据库保活任务，每10秒执行一次")
	}

	// 创建应用组合根
	appRoot := app.NewApp()

	// 注册过期记录清理任务
	sweepInterval := 10 * time.Minute
	if configures.Config.Transfer.SweepIntervalMinutes > 0 {
		sweepInterval = time.Duration(configures.Config.Transfer.SweepIntervalMinutes) * time.Minute
	}
	sweepTask := scheduler.NewIntervalTask(
		"过期闪传记录清理",
		time.Now().Add(sweepInterval),
		sweepInterval,
		scheduler.ExecuteModeDistributed,
		5*time.Minute,
		func(ctx context.Context) error {
			_, err := appRoot.TransferModule.SweepExpired(ctx)
			return err
		},
	)
	if err := base.Scheduler.AddTask(sweepTask); err != nil {
		configures.Logger.Panic(fmt.Sprintf("添加过期记录清理任务失败: %v", err))
	}
	base.Logger.Info(fmt.Sprintf("已注册过期记录清理任务，每 %v 执行一次", sweepInterval))

	// 创建 Fiber 应用
	fiberApp := app.GetApp()

	// 注册路由
	router.Register(appRoot, fiberApp)

	log.Fatal(fiberApp.Listen(fmt.Sprintf(":%d", base.Configures.Config.Port)))
}

func getBaseInfo() (string, string) {
	// 定义命令行参数
	env := flag.String("env", "dev", "环境配置 (dev, prod, test等)")
	configFile := flag.String("config", "", "配置文件路径，默认为 ./resources/{env}.yaml")

	flag.Parse()

	// 如果没有指定配置文件路径，则使用默认路径
	var filename string
	if *configFile == "" {
		getwd, err := os.Getwd()
		if err != nil {
			panic(fmt.Sprintf("获取当前文件位置失败,因为：%v", err))
		}
		filename = getwd + "/resources/" + *env + ".yaml"
	} else {
		filename = *configFile
	}
	return *env, filename
}
