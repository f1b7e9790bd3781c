package dynamodb

import (
	"context"
	"fmt"
	"time"

	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// ChartRepository implements ports.ChartRepository using DynamoDB.
// Charts live under CHART#id; GSI1 lists them per owner by creation time.
type ChartRepository struct {
	table *Table
}

// NewChartRepository creates a new ChartRepository
func NewChartRepository(table *Table) *ChartRepository {
	return &ChartRepository{table: table}
}

// chartItem represents the DynamoDB item structure for a chart
type chartItem struct {
	keys
	entities.ChartDocument
}

func chartPK(id string) string { return "CHART#" + id }

func ownerPK(ownerID string) string { return "OWNER#" + ownerID }

// Save persists a chart. Stored charts are always marked synced.
func (r *ChartRepository) Save(ctx context.Context, chart *entities.ChartRecord) error {
	doc := chart.ToDocument()
	doc.Synced = true

	item := chartItem{
		keys: keys{
			PK:         chartPK(doc.ID),
			SK:         skMetadata,
			GSI1PK:     ownerPK(doc.OwnerID),
			GSI1SK:     fmt.Sprintf("CREATED#%s#%s", doc.CreatedAt.UTC().Format(time.RFC3339Nano), doc.ID),
			EntityType: entityChart,
		},
		ChartDocument: doc,
	}
	if err := r.table.put(ctx, "save chart", item); err != nil {
		return err
	}

	r.table.logger.Debug("Saved chart",
		zap.String("chart_id", doc.ID),
		zap.String("owner_id", doc.OwnerID),
	)
	return nil
}

// GetByID retrieves a chart by its ID
func (r *ChartRepository) GetByID(ctx context.Context, id valueobjects.ChartID) (*entities.ChartRecord, error) {
	var item chartItem
	if err := r.table.get(ctx, "get chart", "chart", chartPK(id.String()), skMetadata, &item); err != nil {
		return nil, err
	}
	return entities.ChartFromDocument(item.ChartDocument)
}

// ListByOwner returns an owner's charts, newest first
func (r *ChartRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entities.ChartRecord, error) {
	charts := []*entities.ChartRecord{}
	err := r.table.query(ctx, queryRequest{
		op:    "list charts",
		index: r.table.gsi1,
		key:   expression.Key("GSI1PK").Equal(expression.Value(ownerPK(ownerID))),
	}, func(av map[string]types.AttributeValue) error {
		var item chartItem
		if err := attributevalue.UnmarshalMap(av, &item); err != nil {
			return err
		}
		chart, err := entities.ChartFromDocument(item.ChartDocument)
		if err != nil {
			r.table.logger.Warn("Skipping unreadable chart", zap.String("chart_id", item.ID), zap.Error(err))
			return nil
		}
		charts = append(charts, chart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return charts, nil
}
