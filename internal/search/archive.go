package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"

	"projmatch/internal/common"
	"projmatch/internal/domain/archive"
)

const IdxCompletedProjects = "completed_projects_v1"

const completedProjectsMapping = `{"settings":{"number_of_shards":1},"mappings":{"dynamic":"strict","properties":{
	"title":{"type":"text"},"supervisor_name":{"type":"keyword"},"year":{"type":"integer"},
	"details":{"type":"text"},"technologies":{"type":"keyword"}
}}}`

type completedProjectDoc struct {
	Title          string   `json:"title"`
	SupervisorName string   `json:"supervisor_name"`
	Year           int      `json:"year"`
	Details        string   `json:"details"`
	Technologies   []string `json:"technologies"`
}

// ArchiveIndex is the Elasticsearch-backed archive.Reader.
type ArchiveIndex struct {
	client *es.Client
}

func NewArchiveIndex(client *es.Client) *ArchiveIndex {
	return &ArchiveIndex{client: client}
}

func (a *ArchiveIndex) EnsureIndex(ctx context.Context) error {
	exists, err := a.client.Indices.Exists([]string{IdxCompletedProjects}, a.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", IdxCompletedProjects, err)
	}
	defer exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}
	res, err := a.client.Indices.Create(IdxCompletedProjects,
		a.client.Indices.Create.WithBody(bytes.NewBufferString(completedProjectsMapping)),
		a.client.Indices.Create.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("create index %s: %w", IdxCompletedProjects, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", IdxCompletedProjects, res.String())
	}
	return nil
}

// Reindex bulk-loads the given records, replacing documents by id.
func (a *ArchiveIndex) Reindex(ctx context.Context, items []archive.CompletedProject) error {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     a.client,
		Index:      IdxCompletedProjects,
		FlushBytes: 5 << 20,
		NumWorkers: 2,
	})
	if err != nil {
		return fmt.Errorf("bulk indexer: %w", err)
	}
	for _, item := range items {
		doc, err := json.Marshal(completedProjectDoc{
			Title:          item.Title,
			SupervisorName: item.SupervisorName,
			Year:           item.Year,
			Details:        item.Details,
			Technologies:   item.Technologies,
		})
		if err != nil {
			return fmt.Errorf("encode doc %s: %w", item.ID, err)
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: item.ID.String(),
			Body:       bytes.NewReader(doc),
		})
		if err != nil {
			return fmt.Errorf("queue doc %s: %w", item.ID, err)
		}
	}
	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("flush bulk indexer: %w", err)
	}
	if stats := bi.Stats(); stats.NumFailed > 0 {
		return fmt.Errorf("reindex: %d documents failed", stats.NumFailed)
	}
	return nil
}

func (a *ArchiveIndex) Search(ctx context.Context, keyword string) ([]archive.CompletedProject, error) {
	var query string
	if keyword == "" {
		query = `{"size":100,"query":{"match_all":{}},"sort":[{"year":"desc"}]}`
	} else {
		encoded, err := json.Marshal(keyword)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to encode search keyword", err)
		}
		query = fmt.Sprintf(`{"size":100,"query":{"match_phrase_prefix":{"title":%s}}}`, encoded)
	}
	res, err := a.client.Search(
		a.client.Search.WithContext(ctx),
		a.client.Search.WithIndex(IdxCompletedProjects),
		a.client.Search.WithBody(bytes.NewBufferString(query)),
	)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "archive search failed", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, common.NewError(common.CodeInternal, "archive search failed: "+res.String(), nil)
	}
	return decodeSearchResponse(res.Body)
}

func decodeSearchResponse(body io.Reader) ([]archive.CompletedProject, error) {
	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string              `json:"_id"`
				Source completedProjectDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to decode search response", err)
	}
	items := []archive.CompletedProject{}
	for _, hit := range parsed.Hits.Hits {
		items = append(items, archive.CompletedProject{
			ID:             common.UUID(hit.ID),
			Title:          hit.Source.Title,
			SupervisorName: hit.Source.SupervisorName,
			Year:           hit.Source.Year,
			Details:        hit.Source.Details,
			Technologies:   hit.Source.Technologies,
		})
	}
	return items, nil
}
