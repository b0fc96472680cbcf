package domain

import "encoding/json"

const ExchangeRatesIndexName = "exchange-rates"

// TimestampFormats are the formats the store accepts for the injected
// capture timestamp.
const TimestampFormats = "yyyy-MM-dd'T'HH:mm:ss.SSS||yyyy-MM-dd'T'HH:mm:ss||strict_date_optional_time"

type FieldMapping struct {
	Type   string `json:"type"`
	Format string `json:"format,omitempty"`
}

type IndexDescriptor struct {
	Name     string
	Shards   int
	Replicas int
	Fields   map[string]FieldMapping
}

var ExchangeRatesIndex = IndexDescriptor{
	Name:     ExchangeRatesIndexName,
	Shards:   1,
	Replicas: 0,
	Fields: map[string]FieldMapping{
		"timestamp": {Type: "date", Format: TimestampFormats},
		"base":      {Type: "keyword"},
		"date":      {Type: "date"},
		"rates":     {Type: "object"},
	},
}

// WithName returns a copy of the descriptor targeting another index name.
// Settings and field mapping stay the same.
func (d IndexDescriptor) WithName(name string) IndexDescriptor {
	d.Name = name
	return d
}

type indexSettings struct {
	NumberOfShards   int `json:"number_of_shards"`
	NumberOfReplicas int `json:"number_of_replicas"`
}

type indexMappings struct {
	Properties map[string]FieldMapping `json:"properties"`
}

type createIndexBody struct {
	Settings indexSettings `json:"settings"`
	Mappings indexMappings `json:"mappings"`
}

// MappingBody renders the create-index request body.
func (d IndexDescriptor) MappingBody() ([]byte, error) {
	return json.Marshal(createIndexBody{
		Settings: indexSettings{NumberOfShards: d.Shards, NumberOfReplicas: d.Replicas},
		Mappings: indexMappings{Properties: d.Fields},
	})
}
