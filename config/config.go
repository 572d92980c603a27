package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type App struct {
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`
	TokenTTLMin int    `envconfig:"TOKEN_TTL_MIN" default:"60"`

	S3Bucket  string `envconfig:"S3_BUCKET_NAME"`
	AWSRegion string `envconfig:"AWS_REGION" default:"us-east-1"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}

func (c App) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMin) * time.Minute
}
