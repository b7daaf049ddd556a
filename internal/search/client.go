package search

import (
	es "github.com/elastic/go-elasticsearch/v8"
)

func Connect(url string) (*es.Client, error) {
	return es.NewClient(es.Config{
		Addresses: []string{url},
	})
}
