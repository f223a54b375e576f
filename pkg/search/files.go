package search

import (
	"context"
	"sort"

	"github.com/platinummonkey/kgsearch/pkg/elastic"
	"github.com/platinummonkey/kgsearch/pkg/model"
)

// FilePageSize is the number of files read per request
const FilePageSize = 10000

// Fields the files of a repository are grouped by
const (
	FileFormatField   = "format.value.keyword"
	GroupingTypeField = "groupingTypes.name.keyword"
)

const fileAggregation = "patterns"

// FileList is the content of a file repository
type FileList struct {
	Total int                      `json:"total"`
	Data  []map[string]interface{} `json:"data"`
}

// ValueList is a sorted list of distinct values
type ValueList struct {
	Total int      `json:"total"`
	Data  []string `json:"data"`
}

// Files lists the files of a repository, optionally restricted to one
// format or one grouping type
func (s *Service) Files(ctx context.Context, stage model.Stage, repositoryID, format, groupingType string) (*FileList, error) {
	index := elastic.AutoReleasedIndex(stage, model.TypeFile, false)
	list := &FileList{Data: []map[string]interface{}{}}
	q := elastic.FileQuery{
		RepositoryID: repositoryID,
		Size:         FilePageSize,
		Format:       format,
		GroupingType: groupingType,
	}
	for {
		result, err := s.engine.FilesFromRepository(ctx, index, q)
		if err != nil {
			return nil, err
		}
		hits := result.Hits.Hits
		for _, h := range hits {
			if h.Source != nil {
				list.Data = append(list.Data, h.Source)
			}
		}
		list.Total = result.Hits.TotalValue()
		if len(hits) < FilePageSize || hits[len(hits)-1].ID == q.SearchAfter {
			return list, nil
		}
		q.SearchAfter = hits[len(hits)-1].ID
	}
}

// FilesPage reads one page of the files of a repository, starting after the
// file searchAfter when set
func (s *Service) FilesPage(ctx context.Context, stage model.Stage, repositoryID, searchAfter string, size int, format, groupingType string) (*FileList, error) {
	if size <= 0 || size > FilePageSize {
		size = FilePageSize
	}
	result, err := s.engine.FilesFromRepository(ctx, elastic.AutoReleasedIndex(stage, model.TypeFile, false), elastic.FileQuery{
		RepositoryID: repositoryID,
		SearchAfter:  searchAfter,
		Size:         size,
		Format:       format,
		GroupingType: groupingType,
	})
	if err != nil {
		return nil, err
	}
	list := &FileList{Total: result.Hits.TotalValue(), Data: []map[string]interface{}{}}
	for _, h := range result.Hits.Hits {
		if h.Source != nil {
			list.Data = append(list.Data, h.Source)
		}
	}
	return list, nil
}

// FileFormats lists the formats of the files of a repository
func (s *Service) FileFormats(ctx context.Context, stage model.Stage, repositoryID string) (*ValueList, error) {
	return s.fileValues(ctx, stage, repositoryID, FileFormatField)
}

// GroupingTypes lists the grouping types of the files of a repository
func (s *Service) GroupingTypes(ctx context.Context, stage model.Stage, repositoryID string) (*ValueList, error) {
	return s.fileValues(ctx, stage, repositoryID, GroupingTypeField)
}

func (s *Service) fileValues(ctx context.Context, stage model.Stage, repositoryID, field string) (*ValueList, error) {
	index := elastic.AutoReleasedIndex(stage, model.TypeFile, false)
	result, err := s.engine.FileAggregations(ctx, index, repositoryID, map[string]string{fileAggregation: field})
	if err != nil {
		return nil, err
	}
	values := []string{}
	if agg := result.Aggregations[fileAggregation]; agg != nil {
		for _, b := range agg.Buckets {
			if b.Key != "" {
				values = append(values, b.Key)
			}
		}
	}
	sort.Strings(values)
	return &ValueList{Total: len(values), Data: values}, nil
}
