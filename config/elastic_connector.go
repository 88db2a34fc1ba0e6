package config

import (
	"os"

	"github.com/olivere/elastic/v7"
)

// NewElasticClient builds a client from ELASTIC_URL.
func NewElasticClient() (*elastic.Client, error) {
	return elastic.NewClient(elastic.SetURL(os.Getenv("ELASTIC_URL")))
}
