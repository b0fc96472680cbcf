package domain

import "context"

type DocumentStore interface {
	IndexExists(ctx context.Context, index string) error
	CreateIndex(ctx context.Context, index string, body []byte) error
	PutDocument(ctx context.Context, index, id string, body []byte) error
}
