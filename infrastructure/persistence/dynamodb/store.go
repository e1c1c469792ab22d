// Package dynamodb implements the record store on a single DynamoDB table.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dreamspeak/application/ports"
	"dreamspeak/domain/dream"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// Client is the subset of the DynamoDB API the store uses
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Config names the table and its indexes
type Config struct {
	TableName string
	GSI1Name  string
	GSI2Name  string
}

// Store implements ports.Store on DynamoDB
type Store struct {
	client Client
	config Config
	now    func() time.Time
	logger *zap.Logger
}

var _ ports.Store = (*Store)(nil)

// NewStore creates a new DynamoDB store
func NewStore(client Client, config Config, logger *zap.Logger) *Store {
	if config.GSI1Name == "" {
		config.GSI1Name = "GSI1"
	}
	if config.GSI2Name == "" {
		config.GSI2Name = "GSI2"
	}
	return &Store{
		client: client,
		config: config,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock overrides the time source used for createdAt
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Ping checks that the table exists and is reachable
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.config.TableName)})
	if err != nil {
		return s.awsError("describe table", err)
	}
	return nil
}

// SeedDefaultUser creates the default user if it is missing and moves the user
// counter past its id
func (s *Store) SeedDefaultUser(ctx context.Context) error {
	update := expression.Set(expression.Name("Value"),
		expression.IfNotExists(expression.Name("Value"), expression.Value(dream.DefaultUserID)))
	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}
	if _, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.config.TableName),
		Key:                       s.key(counterPK(entityUser), skCounter),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}); err != nil {
		return s.awsError("seed user counter", err)
	}

	err = s.putUser(ctx, &dream.User{ID: dream.DefaultUserID, Username: "dreamer"})
	if err != nil && !errors.Is(err, errUsernameTaken) {
		return err
	}
	return nil
}

// Users

var errUsernameTaken = errors.New("username already exists")

func (s *Store) CreateUser(ctx context.Context, username, password string) (*dream.User, error) {
	id, err := s.nextID(ctx, entityUser)
	if err != nil {
		return nil, err
	}
	user := &dream.User{ID: id, Username: username, Password: password}
	if err := s.putUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// putUser reserves the username, then writes the profile
func (s *Store) putUser(ctx context.Context, user *dream.User) error {
	guard, err := attributevalue.MarshalMap(usernameItem{
		PK:         usernamePK(user.Username),
		SK:         skUsername,
		EntityType: entityUsername,
		UserID:     user.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal username: %w", err)
	}
	if err := s.putIfAbsent(ctx, guard); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("%w: %s", errUsernameTaken, user.Username)
		}
		return s.awsError("reserve username", err)
	}

	profile, err := attributevalue.MarshalMap(userItem{
		PK:         userPK(user.ID),
		SK:         skProfile,
		EntityType: entityUser,
		ID:         user.ID,
		Username:   user.Username,
		Password:   user.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      profile,
	}); err != nil {
		return s.awsError("put user", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*dream.User, error) {
	var item userItem
	if err := s.getItem(ctx, userPK(id), skProfile, &item); err != nil {
		return nil, err
	}
	return &dream.User{ID: item.ID, Username: item.Username, Password: item.Password}, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*dream.User, error) {
	var guard usernameItem
	if err := s.getItem(ctx, usernamePK(username), skUsername, &guard); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, guard.UserID)
}

// Dreams

func (s *Store) CreateDream(ctx context.Context, input dream.NewDream) (*dream.Dream, error) {
	id, err := s.nextID(ctx, entityDream)
	if err != nil {
		return nil, err
	}
	d := input.Build(id, s.now())

	if err := s.putDream(ctx, d, expression.Name("PK").AttributeNotExists()); err != nil {
		return nil, err
	}

	s.logger.Debug("Dream stored",
		zap.Int64("dreamID", d.ID),
		zap.Int64("userID", d.UserID),
	)
	return d, nil
}

func (s *Store) GetDream(ctx context.Context, id int64) (*dream.Dream, error) {
	var item dreamItem
	if err := s.getItem(ctx, dreamPK(id), skMetadata, &item); err != nil {
		return nil, err
	}
	return item.toDomain()
}

func (s *Store) GetDreamsByUserID(ctx context.Context, userID int64) ([]*dream.Dream, error) {
	items, err := s.queryIndex(ctx, s.config.GSI1Name, "GSI1PK", userPK(userID), false, 0)
	if err != nil {
		return nil, err
	}

	dreams := make([]*dream.Dream, 0, len(items))
	for _, raw := range items {
		var item dreamItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal dream: %w", err)
		}
		d, err := item.toDomain()
		if err != nil {
			return nil, err
		}
		dreams = append(dreams, d)
	}
	dream.SortNewestFirst(dreams)
	return dreams, nil
}

// UpdateDream reads, merges and writes back; concurrent updates resolve last write wins
func (s *Store) UpdateDream(ctx context.Context, id int64, patch dream.Patch) (*dream.Dream, error) {
	d, err := s.GetDream(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(d)

	if err := s.putDream(ctx, d, expression.Name("PK").AttributeExists()); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *Store) DeleteDream(ctx context.Context, id int64) error {
	out, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.config.TableName),
		Key:          s.key(dreamPK(id), skMetadata),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return s.awsError("delete dream", err)
	}
	if len(out.Attributes) == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// SearchDreams filters in the application; DynamoDB's contains() is case sensitive
func (s *Store) SearchDreams(ctx context.Context, userID int64, query string) ([]*dream.Dream, error) {
	dreams, err := s.GetDreamsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	matches := make([]*dream.Dream, 0, len(dreams))
	for _, d := range dreams {
		if d.Matches(query) {
			matches = append(matches, d)
		}
	}
	return matches, nil
}

func (s *Store) putDream(ctx context.Context, d *dream.Dream, condition expression.ConditionBuilder) error {
	av, err := attributevalue.MarshalMap(newDreamItem(d))
	if err != nil {
		return fmt.Errorf("failed to marshal dream: %w", err)
	}
	expr, err := expression.NewBuilder().WithCondition(condition).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(s.config.TableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return err
		}
		return s.awsError("put dream", err)
	}
	return nil
}

// Chat messages

func (s *Store) CreateChatMessage(ctx context.Context, input dream.NewChatMessage) (*dream.ChatMessage, error) {
	id, err := s.nextID(ctx, entityMessage)
	if err != nil {
		return nil, err
	}
	m := input.Build(id, s.now())

	item, err := newMessageItem(m)
	if err != nil {
		return nil, err
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat message: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      av,
	}); err != nil {
		return nil, s.awsError("put chat message", err)
	}
	return m, nil
}

func (s *Store) GetChatMessages(ctx context.Context, dreamID *int64) ([]*dream.ChatMessage, error) {
	items, err := s.queryIndex(ctx, s.config.GSI1Name, "GSI1PK", threadPK(dreamID), true, 0)
	if err != nil {
		return nil, err
	}
	messages, err := decodeMessages(items)
	if err != nil {
		return nil, err
	}
	dream.SortOldestFirst(messages)
	return messages, nil
}

func (s *Store) GetRecentChatMessages(ctx context.Context, limit int) ([]*dream.ChatMessage, error) {
	if limit <= 0 {
		return []*dream.ChatMessage{}, nil
	}
	items, err := s.queryIndex(ctx, s.config.GSI2Name, "GSI2PK", chatFeedPK, false, limit)
	if err != nil {
		return nil, err
	}
	messages, err := decodeMessages(items)
	if err != nil {
		return nil, err
	}
	return dream.LatestMessages(messages, limit), nil
}

func decodeMessages(items []map[string]types.AttributeValue) ([]*dream.ChatMessage, error) {
	messages := make([]*dream.ChatMessage, 0, len(items))
	for _, raw := range items {
		var item messageItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chat message: %w", err)
		}
		m, err := item.toDomain()
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// Helpers

func (s *Store) key(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

// getItem loads one item into out, returning ports.ErrNotFound when absent
func (s *Store) getItem(ctx context.Context, pk, sk string, out interface{}) error {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       s.key(pk, sk),
	})
	if err != nil {
		return s.awsError("get item", err)
	}
	if len(result.Item) == 0 {
		return ports.ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", pk, err)
	}
	return nil
}

func (s *Store) putIfAbsent(ctx context.Context, item map[string]types.AttributeValue) error {
	expr, err := expression.NewBuilder().WithCondition(expression.Name("PK").AttributeNotExists()).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(s.config.TableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	return err
}

// queryIndex pages through an index partition. A positive limit stops once that
// many items have been read.
func (s *Store) queryIndex(ctx context.Context, index, pkAttr, pkValue string, ascending bool, limit int) ([]map[string]types.AttributeValue, error) {
	keyExpr := expression.Key(pkAttr).Equal(expression.Value(pkValue))
	expr, err := expression.NewBuilder().WithKeyCondition(keyExpr).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.TableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(ascending),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	var items []map[string]types.AttributeValue
	for {
		result, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, s.awsError("query "+index, err)
		}
		items = append(items, result.Items...)

		if len(result.LastEvaluatedKey) == 0 || (limit > 0 && len(items) >= limit) {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// nextID atomically increments the counter for kind
func (s *Store) nextID(ctx context.Context, kind string) (int64, error) {
	update := expression.Add(expression.Name("Value"), expression.Value(1))
	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return 0, fmt.Errorf("failed to build expression: %w", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.config.TableName),
		Key:                       s.key(counterPK(kind), skCounter),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, s.awsError("next "+strings.ToLower(kind)+" id", err)
	}

	var counter struct {
		Value int64 `dynamodbav:"Value"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &counter); err != nil {
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}
	return counter.Value, nil
}

// awsError logs the service error code and wraps the error with the operation
func (s *Store) awsError(op string, err error) error {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		s.logger.Error("DynamoDB operation failed",
			zap.String("operation", op),
			zap.String("table", s.config.TableName),
			zap.String("code", ae.ErrorCode()),
			zap.String("message", ae.ErrorMessage()),
		)
	} else {
		s.logger.Error("DynamoDB operation failed",
			zap.String("operation", op),
			zap.String("table", s.config.TableName),
			zap.Error(err),
		)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
