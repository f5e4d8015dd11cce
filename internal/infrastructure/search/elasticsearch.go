package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-graphql-blog/internal/domain/entity"
	"github.com/oksasatya/go-graphql-blog/pkg/helpers"
)

const requestTimeout = 3 * time.Second

type ESPostIndexer struct {
	es    *elasticsearch.Client
	index string
}

func NewESPostIndexer(es *elasticsearch.Client, index string) *ESPostIndexer {
	return &ESPostIndexer{es: es, index: index}
}

type postDoc struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImageURL  string `json:"imageUrl"`
	CreatorID string `json:"creatorId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// postsIndexBody maps title and content as analyzed text and the rest as keywords.
var postsIndexBody = []byte(`{
  "mappings": {
    "properties": {
      "id":        {"type": "keyword"},
      "title":     {"type": "text"},
      "content":   {"type": "text"},
      "imageUrl":  {"type": "keyword", "index": false},
      "creatorId": {"type": "keyword"},
      "createdAt": {"type": "date"},
      "updatedAt": {"type": "date"}
    }
  }
}`)

// EnsureIndex creates the posts index on first start.
func (i *ESPostIndexer) EnsureIndex(ctx context.Context) (bool, error) {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	return helpers.EnsureESIndex(c, i.es, i.index, postsIndexBody)
}

func (i *ESPostIndexer) Index(ctx context.Context, p *entity.Post) error {
	b, err := json.Marshal(postDoc{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		CreatorID: p.CreatorID,
		CreatedAt: helpers.ISOTime(p.CreatedAt),
		UpdatedAt: helpers.ISOTime(p.UpdatedAt),
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: i.index, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, i.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", p.ID, res.Status())
	}
	return nil
}

func (i *ESPostIndexer) Delete(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: i.index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, i.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete %s: %s", id, res.Status())
	}
	return nil
}

// searchBody builds a multi_match query over title and content.
func searchBody(q string, size int) ([]byte, error) {
	return json.Marshal(map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "content"},
			},
		},
		"size":    size,
		"_source": false,
	})
}

func (i *ESPostIndexer) Search(ctx context.Context, q string, limit int) ([]string, error) {
	b, err := searchBody(q, ClampLimit(limit))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := i.es.Search(
		i.es.Search.WithContext(c),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	// a missing index just means nothing was indexed yet
	if res.StatusCode == http.StatusNotFound {
		return []string{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

var _ PostIndexer = (*ESPostIndexer)(nil)
