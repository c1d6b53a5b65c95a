package config

import (
	"fmt"
	"os"
)

type DynamoConfig struct {
	CallsTableName     string
	CampaignsTableName string
}

func GetDynamoConfig() (*DynamoConfig, error) {
	callsTable := os.Getenv("DYNAMO_CALLS_TABLE_NAME")
	if callsTable == "" {
		return nil, fmt.Errorf("DYNAMO_CALLS_TABLE_NAME must be set")
	}

	campaignsTable := os.Getenv("DYNAMO_CAMPAIGNS_TABLE_NAME")
	if campaignsTable == "" {
		return nil, fmt.Errorf("DYNAMO_CAMPAIGNS_TABLE_NAME must be set")
	}

	return &DynamoConfig{
		CallsTableName:     callsTable,
		CampaignsTableName: campaignsTable,
	}, nil
}
