package config

import (
	"context"
	"fmt"
	"net"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Database struct {
	Host     string `yaml:"host" json:"host,omitempty"`
	Port     int64  `yaml:"port" json:"port,omitempty"`
	User     string `yaml:"user" json:"user,omitempty"`
	Password string `yaml:"password" json:"password,omitempty"`
	DbName   string `yaml:"db-name" json:"db-name,omitempty"`
}

func InitPg(database Database, proxyConfig ProxyConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable password=%s",
		database.Host, database.Port, database.User, database.DbName, database.Password)

	// PostgreSQL 驱动不支持自定义 dialer，代理需在网络层处理
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func InitMysql(database Database, proxyConfig ProxyConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	if proxyConfig.Enabled {
		// 注册自定义dialer到MySQL驱动
		dialerName := fmt.Sprintf("proxy_%d", time.Now().UnixNano())
		dialer := proxyConfig.GetDialer()

		mysqldriver.RegisterDialContext(dialerName, func(ctx context.Context, addr string) (net.Conn, error) {
			return dialer.Dial("tcp", addr)
		})

		dsn := fmt.Sprintf("%s:%s@%s(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			database.User, database.Password, dialerName, database.Host, database.Port, database.DbName)
		dialector = mysql.Open(dsn)
	} else {
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			database.User, database.Password, database.Host, database.Port, database.DbName)
		dialector = mysql.Open(dsn)
	}

	// TranslateError: 唯一索引冲突需要转换为 gorm.ErrDuplicatedKey 供上层识别
	return gorm.Open(dialector, &gorm.Config{TranslateError: true})
}
