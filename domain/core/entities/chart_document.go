package entities

import (
	"time"

	"astroguia-backend/domain/core/valueobjects"
)

// ChartDocument is the plain nested form of a ChartRecord used for JSON
// responses and document storage.
type ChartDocument struct {
	ID             string                    `json:"id" dynamodbav:"chart_id"`
	OwnerID        string                    `json:"userId" dynamodbav:"owner_id"`
	CreatedAt      time.Time                 `json:"createdAt" dynamodbav:"created_at"`
	BirthDetails   valueobjects.BirthDetails `json:"birthDetails" dynamodbav:"birth_details"`
	ChartData      ChartData                 `json:"chartData" dynamodbav:"chart_data"`
	Interpretation *Interpretation           `json:"interpretation,omitempty" dynamodbav:"interpretation,omitempty"`
	Synced         bool                      `json:"synced" dynamodbav:"synced"`
	SchemaVersion  int                       `json:"schemaVersion" dynamodbav:"schema_version"`
}

// ToDocument flattens the chart for serialization
func (c *ChartRecord) ToDocument() ChartDocument {
	return ChartDocument{
		ID:             c.id.String(),
		OwnerID:        c.ownerID,
		CreatedAt:      c.createdAt,
		BirthDetails:   c.birthDetails,
		ChartData:      c.data.clone(),
		Interpretation: c.interpretation.clone(),
		Synced:         c.synced,
		SchemaVersion:  c.schemaVersion,
	}
}

// ChartFromDocument reconstructs a chart read back from storage
func ChartFromDocument(doc ChartDocument) (*ChartRecord, error) {
	id, err := valueobjects.ChartIDFromString(doc.ID)
	if err != nil {
		return nil, err
	}
	chart, err := NewChartRecord(id, doc.OwnerID, doc.CreatedAt, doc.BirthDetails, doc.ChartData, doc.Interpretation, doc.SchemaVersion)
	if err != nil {
		return nil, err
	}
	if !doc.Synced {
		return chart.MarkUnsynced(), nil
	}
	return chart, nil
}
