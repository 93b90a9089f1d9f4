package docstore

import (
	"context"
	"fmt"

	"campus-rentals/internal/models"

	"go.uber.org/zap"
)

func (c *Client) GetCollection(ctx context.Context, name string) ([]Document, error) {
	path := fmt.Sprintf("/v1/collections/%s", name)

	data, err := c.get(ctx, path, nil)
	if err != nil {
		c.logger.Error("failed to get collection",
			zap.String("collection", name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get collection %s: %w", name, err)
	}

	docs, err := ParseDocuments(data)
	if err != nil {
		c.logger.Error("failed to parse collection",
			zap.String("collection", name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("parse collection %s: %w", name, err)
	}

	c.logger.Debug("collection retrieved",
		zap.String("collection", name),
		zap.Int("documents", len(docs)),
	)

	return docs, nil
}

// Offers reads every offer record of the offers collection.
func (c *Client) Offers(ctx context.Context) ([]Decoded[models.Offer], error) {
	docs, err := c.GetCollection(ctx, CollectionOffers)
	if err != nil {
		return nil, err
	}

	now := c.now()
	var out []Decoded[models.Offer]
	for _, doc := range docs {
		out = append(out, ParseOffers(doc, now)...)
	}

	return out, nil
}

// Properties reads every property record of the properties collection.
func (c *Client) Properties(ctx context.Context) ([]Decoded[models.Property], error) {
	docs, err := c.GetCollection(ctx, CollectionProperties)
	if err != nil {
		return nil, err
	}

	var out []Decoded[models.Property]
	for _, doc := range docs {
		out = append(out, ParseProperties(doc)...)
	}

	return out, nil
}
