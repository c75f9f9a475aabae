package db

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jinzhu/gorm"

	// registers the mysql dialect with gorm
	_ "github.com/jinzhu/gorm/dialects/mysql"
	log "github.com/sirupsen/logrus"
)

// ConnectToDb opens the workflow database
func ConnectToDb(dbConfig mysql.Config, l *log.Entry) (*gorm.DB, error) {
	if dbConfig.Addr == "" {
		return nil, fmt.Errorf("No database address has been configured")
	}
	if dbConfig.Net == "" {
		dbConfig.Net = "tcp"
	}
	dbConfig.ParseTime = true
	dbConfig.AllowNativePasswords = true

	l.Debugf("Connection String (pw redacted): %s", Redacted(dbConfig))

	db, err := gorm.Open("mysql", dbConfig.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("Unable to connect to the database: %s", err.Error())
	}
	db.SetLogger(l)
	db.LogMode(l.Logger.IsLevelEnabled(log.DebugLevel))
	return db, nil
}

// Redacted formats the connection for logging with the password masked
func Redacted(dbConfig mysql.Config) string {
	redact := func(r rune) rune {
		return '*'
	}
	return fmt.Sprintf("%s:%s@%s/%s", dbConfig.User, strings.Map(redact, dbConfig.Passwd), dbConfig.Addr, dbConfig.DBName)
}
