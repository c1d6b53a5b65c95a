package adapters

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/config"
	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

type dynamoCampaignItem struct {
	CampaignId      string  `dynamodbav:"campaign_id"`
	Name            string  `dynamodbav:"name"`
	GoalScript      string  `dynamodbav:"goal_script"`
	Greeting        string  `dynamodbav:"greeting"`
	Language        string  `dynamodbav:"language"`
	GenerationModel string  `dynamodbav:"generation_model"`
	VoiceId         string  `dynamodbav:"voice_id"`
	SynthesisModel  string  `dynamodbav:"synthesis_model"`
	Stability       float64 `dynamodbav:"stability"`
	SimilarityBoost float64 `dynamodbav:"similarity_boost"`
	Style           float64 `dynamodbav:"style"`
	SpeakerBoost    bool    `dynamodbav:"speaker_boost"`
}

type dynamoCallItem struct {
	CallId          string              `dynamodbav:"call_id"`
	ContactId       string              `dynamodbav:"contact_id"`
	CampaignId      string              `dynamodbav:"campaign_id"`
	PhoneNumber     string              `dynamodbav:"phone_number"`
	ProviderCallId  string              `dynamodbav:"provider_call_id"`
	Status          string              `dynamodbav:"status"`
	Phone           string              `dynamodbav:"phone"`
	Email           string              `dynamodbav:"email"`
	Summary         string              `dynamodbav:"summary"`
	DurationSeconds int                 `dynamodbav:"duration_seconds"`
	StartedAt       int64               `dynamodbav:"started_at"`
	EndedAt         int64               `dynamodbav:"ended_at"`
	Messages        []dynamoMessageItem `dynamodbav:"messages"`
}

type dynamoMessageItem struct {
	Role      string `dynamodbav:"role"`
	Text      string `dynamodbav:"text"`
	Timestamp int64  `dynamodbav:"timestamp"`
}

type dynamoCallStore struct {
	logger       outbound.LoggerPort
	dynamoSvc    *dynamodb.DynamoDB
	dynamoConfig *config.DynamoConfig
}

func NewDynamoCallStore(logger outbound.LoggerPort, dynamoSvc *dynamodb.DynamoDB, dynamoConfig *config.DynamoConfig) outbound.CallStorePort {
	return &dynamoCallStore{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (s *dynamoCallStore) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	out, err := s.dynamoSvc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.dynamoConfig.CampaignsTableName),
		Key: map[string]*dynamodb.AttributeValue{
			"campaign_id": {S: aws.String(id)},
		},
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to get campaign item", map[string]interface{}{
			"campaign_id": id,
		})
		return nil, err
	}
	if out.Item == nil {
		return nil, outbound.ErrRecordNotFound
	}

	var item dynamoCampaignItem
	if err := dynamodbattribute.UnmarshalMap(out.Item, &item); err != nil {
		s.logger.ErrorWithFields(err, "Failed to unmarshal campaign item", map[string]interface{}{
			"campaign_id": id,
		})
		return nil, err
	}

	return &domain.Campaign{
		ID:              item.CampaignId,
		Name:            item.Name,
		GoalScript:      item.GoalScript,
		Greeting:        item.Greeting,
		Language:        item.Language,
		GenerationModel: item.GenerationModel,
		VoiceID:         item.VoiceId,
		SynthesisModel:  item.SynthesisModel,
		VoiceSettings: domain.VoiceSettings{
			Stability:       item.Stability,
			SimilarityBoost: item.SimilarityBoost,
			Style:           item.Style,
			SpeakerBoost:    item.SpeakerBoost,
		},
	}, nil
}

func (s *dynamoCallStore) GetCallRecord(ctx context.Context, id string) (*domain.CallRecord, error) {
	out, err := s.dynamoSvc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.dynamoConfig.CallsTableName),
		Key: map[string]*dynamodb.AttributeValue{
			"call_id": {S: aws.String(id)},
		},
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to get call item", map[string]interface{}{
			"call_id": id,
		})
		return nil, err
	}
	if out.Item == nil {
		return nil, outbound.ErrRecordNotFound
	}

	var item dynamoCallItem
	if err := dynamodbattribute.UnmarshalMap(out.Item, &item); err != nil {
		s.logger.ErrorWithFields(err, "Failed to unmarshal call item", map[string]interface{}{
			"call_id": id,
		})
		return nil, err
	}

	record := &domain.CallRecord{
		ID:              item.CallId,
		ContactID:       item.ContactId,
		CampaignID:      item.CampaignId,
		PhoneNumber:     item.PhoneNumber,
		ProviderCallID:  item.ProviderCallId,
		Status:          domain.CallStatus(item.Status),
		Fields:          domain.ContactFields{Phone: item.Phone, Email: item.Email},
		Summary:         item.Summary,
		DurationSeconds: item.DurationSeconds,
		StartedAt:       time.Unix(item.StartedAt, 0).UTC(),
	}
	if item.EndedAt > 0 {
		record.EndedAt = time.Unix(item.EndedAt, 0).UTC()
	}
	for _, msg := range item.Messages {
		record.Messages = append(record.Messages, domain.ConversationTurn{
			Role:      domain.TurnRole(msg.Role),
			Text:      msg.Text,
			Timestamp: time.Unix(msg.Timestamp, 0).UTC(),
		})
	}
	return record, nil
}

func (s *dynamoCallStore) CreateCallRecord(ctx context.Context, record domain.CallRecord) error {
	item := dynamoCallItem{
		CallId:         record.ID,
		ContactId:      record.ContactID,
		CampaignId:     record.CampaignID,
		PhoneNumber:    record.PhoneNumber,
		ProviderCallId: record.ProviderCallID,
		Status:         string(record.Status),
		StartedAt:      record.StartedAt.Unix(),
		Messages:       []dynamoMessageItem{},
	}
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to marshal call item", map[string]interface{}{
			"call_id": record.ID,
		})
		return err
	}

	_, err = s.dynamoSvc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(s.dynamoConfig.CallsTableName),
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to save call item", map[string]interface{}{
			"call_id": record.ID,
		})
		return err
	}

	return nil
}

func (s *dynamoCallStore) UpdateCallRecord(ctx context.Context, id string, update outbound.CallRecordUpdate) error {
	names := map[string]*string{}
	values := map[string]*dynamodb.AttributeValue{}
	var sets []string

	set := func(attr string, value *dynamodb.AttributeValue) {
		placeholder := "#" + attr
		names[placeholder] = aws.String(attr)
		values[":"+attr] = value
		sets = append(sets, fmt.Sprintf("%s = :%s", placeholder, attr))
	}

	if update.Status != nil {
		set("status", &dynamodb.AttributeValue{S: aws.String(string(*update.Status))})
		if *update.Status != domain.CallStatusActive {
			set("ended_at", &dynamodb.AttributeValue{N: aws.String(fmt.Sprintf("%d", time.Now().Unix()))})
		}
	}
	if update.Phone != nil {
		set("phone", &dynamodb.AttributeValue{S: aws.String(*update.Phone)})
	}
	if update.Email != nil {
		set("email", &dynamodb.AttributeValue{S: aws.String(*update.Email)})
	}
	if update.Summary != nil {
		set("summary", &dynamodb.AttributeValue{S: aws.String(*update.Summary)})
	}
	if update.DurationSeconds != nil {
		set("duration_seconds", &dynamodb.AttributeValue{N: aws.String(fmt.Sprintf("%d", *update.DurationSeconds))})
	}
	if update.ProviderCallID != nil {
		set("provider_call_id", &dynamodb.AttributeValue{S: aws.String(*update.ProviderCallID)})
	}

	if len(sets) == 0 {
		return nil
	}

	_, err := s.dynamoSvc.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.dynamoConfig.CallsTableName),
		Key: map[string]*dynamodb.AttributeValue{
			"call_id": {S: aws.String(id)},
		},
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to update call item", map[string]interface{}{
			"call_id": id,
		})
		return err
	}

	return nil
}

func (s *dynamoCallStore) AppendConversationMessage(ctx context.Context, callID string, role domain.TurnRole, text string) error {
	msg, err := dynamodbattribute.MarshalMap(dynamoMessageItem{
		Role:      string(role),
		Text:      text,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	_, err = s.dynamoSvc.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.dynamoConfig.CallsTableName),
		Key: map[string]*dynamodb.AttributeValue{
			"call_id": {S: aws.String(callID)},
		},
		UpdateExpression: aws.String("SET #m = list_append(if_not_exists(#m, :empty), :msg)"),
		ExpressionAttributeNames: map[string]*string{
			"#m": aws.String("messages"),
		},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":msg":   {L: []*dynamodb.AttributeValue{{M: msg}}},
			":empty": {L: []*dynamodb.AttributeValue{}},
		},
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to append conversation message", map[string]interface{}{
			"call_id": callID,
			"role":    role,
		})
		return err
	}

	return nil
}
