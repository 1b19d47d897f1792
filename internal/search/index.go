package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/artique/internal/models"
)

const mapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "long"},
      "name":        {"type": "text"},
      "description": {"type": "text"},
      "price":       {"type": "double"},
      "artist_id":   {"type": "long"},
      "created_at":  {"type": "date"}
    }
  }
}`

// Index stores items as documents keyed by item id.
type Index struct {
	ES   *elasticsearch.Client
	Name string
}

func New(es *elasticsearch.Client, name string) *Index {
	return &Index{ES: es, Name: name}
}

// Ensure creates the index with its mapping if it does not exist yet.
func (x *Index) Ensure(ctx context.Context) error {
	res, err := x.ES.Indices.Exists([]string{x.Name}, x.ES.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: exists %s: %w", x.Name, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = x.ES.Indices.Create(x.Name,
		x.ES.Indices.Create.WithContext(ctx),
		x.ES.Indices.Create.WithBody(bytes.NewReader([]byte(mapping))),
	)
	if err != nil {
		return fmt.Errorf("es: create %s: %w", x.Name, err)
	}
	return check(res, "create index")
}

func (x *Index) Put(ctx context.Context, item models.Item) error {
	body, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("es: marshal item: %w", err)
	}

	res, err := x.ES.Index(x.Name, bytes.NewReader(body),
		x.ES.Index.WithContext(ctx),
		x.ES.Index.WithDocumentID(docID(item.ID)),
	)
	if err != nil {
		return fmt.Errorf("es: index item %d: %w", item.ID, err)
	}
	return check(res, "index item")
}

// Remove deletes the document for id. A missing document is not an error.
func (x *Index) Remove(ctx context.Context, id uint) error {
	res, err := x.ES.Delete(x.Name, docID(id), x.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: delete item %d: %w", id, err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return check(res, "delete item")
}

func (x *Index) Search(ctx context.Context, q string, from, size int) (int64, []models.Item, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("es: encode query: %w", err)
	}

	res, err := x.ES.Search(
		x.ES.Search.WithContext(ctx),
		x.ES.Search.WithIndex(x.Name),
		x.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("es: search: %s: %s", res.Status(), msg)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Item `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("es: decode search: %w", err)
	}

	items := make([]models.Item, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return r.Hits.Total.Value, items, nil
}

func docID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func check(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("es: %s: %s: %s", op, res.Status(), msg)
	}
	return nil
}
