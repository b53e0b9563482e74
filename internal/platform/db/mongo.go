package db

import (
	"fmt"
	"time"

	mgo "gopkg.in/mgo.v2"
)

// MongoConfig describes a MongoDB connection. Database is used when the URL
// does not name one.
type MongoConfig struct {
	URL      string
	Database string
	Timeout  time.Duration
}

// MongoDatabase returns the database a connection should use: the one in the
// URL path if present, otherwise fallback.
func MongoDatabase(url, fallback string) (string, error) {
	info, err := mgo.ParseURL(url)
	if err != nil {
		return "", fmt.Errorf("parse mongo url: %w", err)
	}
	if info.Database != "" {
		return info.Database, nil
	}
	return fallback, nil
}

// DialMongo opens a session in Monotonic mode and verifies it with a ping.
// Callers Copy the returned session per operation and Close it on shutdown.
func DialMongo(mc MongoConfig) (*mgo.Session, string, error) {
	info, err := mgo.ParseURL(mc.URL)
	if err != nil {
		return nil, "", fmt.Errorf("parse mongo url: %w", err)
	}
	if mc.Timeout > 0 {
		info.Timeout = mc.Timeout
	}
	dbName, err := MongoDatabase(mc.URL, mc.Database)
	if err != nil {
		return nil, "", err
	}

	session, err := mgo.DialWithInfo(info)
	if err != nil {
		return nil, "", fmt.Errorf("dial mongo: %w", err)
	}
	session.SetMode(mgo.Monotonic, true)

	if err := session.Ping(); err != nil {
		session.Close()
		return nil, "", fmt.Errorf("ping mongo: %w", err)
	}
	return session, dbName, nil
}
