package dynamodb

import (
	"context"
	"sort"
	"strings"

	"astroguia-backend/domain/core/entities"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func userPK(userID string) string { return "USER#" + userID }

func favoriteSK(itemType, itemID string) string {
	return "FAVORITE#" + entities.FavoriteKey(itemType, itemID)
}

// UserRepository implements ports.UserRepository using DynamoDB
type UserRepository struct {
	table *Table
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(table *Table) *UserRepository {
	return &UserRepository{table: table}
}

type userItem struct {
	keys
	entities.User
}

// GetByID retrieves a profile
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*entities.User, error) {
	var item userItem
	if err := r.table.get(ctx, "get user", "user", userPK(userID), skProfile, &item); err != nil {
		return nil, err
	}
	user := item.User
	return &user, nil
}

// Save upserts a profile
func (r *UserRepository) Save(ctx context.Context, user *entities.User) error {
	return r.table.put(ctx, "save user", userItem{
		keys: keys{
			PK:         userPK(user.ID),
			SK:         skProfile,
			EntityType: entityUser,
		},
		User: *user,
	})
}

// Delete removes a profile document. Favorites are left in place.
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	return r.table.delete(ctx, "delete user", userPK(userID), skProfile)
}

// FavoriteRepository implements ports.FavoriteRepository using DynamoDB.
// Favorites live in the owner's partition under FAVORITE#type#id.
type FavoriteRepository struct {
	table *Table
}

// NewFavoriteRepository creates a new FavoriteRepository
func NewFavoriteRepository(table *Table) *FavoriteRepository {
	return &FavoriteRepository{table: table}
}

type favoriteItem struct {
	keys
	entities.Favorite
}

// Save upserts a favorite, including soft-deleted ones
func (r *FavoriteRepository) Save(ctx context.Context, favorite *entities.Favorite) error {
	return r.table.put(ctx, "save favorite", favoriteItem{
		keys: keys{
			PK:         userPK(favorite.UserID),
			SK:         favoriteSK(favorite.ItemType, favorite.ItemID),
			EntityType: entityFavorite,
		},
		Favorite: *favorite,
	})
}

// Get retrieves a favorite whether or not it was removed
func (r *FavoriteRepository) Get(ctx context.Context, userID, itemType, itemID string) (*entities.Favorite, error) {
	var item favoriteItem
	if err := r.table.get(ctx, "get favorite", "favorite", userPK(userID), favoriteSK(itemType, itemID), &item); err != nil {
		return nil, err
	}
	f := item.Favorite
	return &f, nil
}

// ListByType returns live favorites of one type, newest first
func (r *FavoriteRepository) ListByType(ctx context.Context, userID, itemType string) ([]*entities.Favorite, error) {
	live := expression.Name("deleted").Equal(expression.Value(false))
	prefix := "FAVORITE#" + strings.TrimSpace(itemType) + "#"

	favorites := []*entities.Favorite{}
	err := r.table.query(ctx, queryRequest{
		op: "list favorites",
		key: expression.Key("PK").Equal(expression.Value(userPK(userID))).
			And(expression.Key("SK").BeginsWith(prefix)),
		filter:  &live,
		forward: true,
	}, func(av map[string]types.AttributeValue) error {
		var item favoriteItem
		if err := attributevalue.UnmarshalMap(av, &item); err != nil {
			return err
		}
		f := item.Favorite
		favorites = append(favorites, &f)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(favorites, func(i, j int) bool {
		return favorites[i].CreatedAt.After(favorites[j].CreatedAt)
	})
	return favorites, nil
}
