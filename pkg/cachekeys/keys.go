package cachekeys

import (
	"encoding/json"
	"strconv"
	"strings"

	"gitlab.com/orza-agritech/web/orza-sync/pkg/crypto"
)

// Resource names every cache key is scoped under. Invalidation edges match on
// these, so they are the single source of truth for key identity.
const (
	ResArticles           = "articles"
	ResMyArticles         = "my_articles"
	ResArticle            = "article"
	ResCommunities        = "communities"
	ResMyCommunities      = "my_communities"
	ResCommunity          = "community"
	ResPosts              = "posts"
	ResPost               = "post"
	ResLikeCount          = "like_count"
	ResLikedPosts         = "liked_posts"
	ResComments           = "comments"
	ResPredictions        = "predictions"
	ResPrediction         = "prediction"
	ResPredictionStats    = "prediction_stats"
	ResNotifications      = "notifications"
	ResProfile            = "profile"
	ResUserProfile        = "user_profile"
	ResCategories         = "categories"
	ResProductSuggestions = "product_suggestions"
)

// Key identifies one cached read: a resource name plus its ordered parameters.
// Keys are compared structurally; they are rendered to a string only at the
// cache-store boundary.
type Key struct {
	Resource string
	Parts    []string
}

// String renders the key in the "{resource}:{part}:{part}" form used by the
// underlying stores.
func (k Key) String() string {
	if len(k.Parts) == 0 {
		return k.Resource
	}
	return k.Resource + ":" + strings.Join(k.Parts, ":")
}

// Predicate selects keys for invalidation. Matching is structural, never
// string-glob based.
type Predicate func(Key) bool

// ByResource matches every key under the given resource name.
func ByResource(resource string) Predicate {
	return func(k Key) bool { return k.Resource == resource }
}

// Exact matches a single key.
func Exact(want Key) Predicate {
	return func(k Key) bool {
		if k.Resource != want.Resource || len(k.Parts) != len(want.Parts) {
			return false
		}
		for i := range k.Parts {
			if k.Parts[i] != want.Parts[i] {
				return false
			}
		}
		return true
	}
}

// Scoped matches every key under resource whose leading parts equal scope.
// Pagination parts after the scope are ignored, so Scoped(ResPosts, communityID)
// matches every cached page of that community's posts.
func Scoped(resource string, scope ...string) Predicate {
	return func(k Key) bool {
		if k.Resource != resource || len(k.Parts) < len(scope) {
			return false
		}
		for i := range scope {
			if k.Parts[i] != scope[i] {
				return false
			}
		}
		return true
	}
}

// Any matches keys satisfying at least one of the given predicates.
func Any(preds ...Predicate) Predicate {
	return func(k Key) bool {
		for _, p := range preds {
			if p(k) {
				return true
			}
		}
		return false
	}
}

// Everything matches all keys. Used for full cache resets on session destruction.
func Everything() Predicate {
	return func(Key) bool { return true }
}

func page(p, limit int) []string {
	return []string{strconv.Itoa(p), strconv.Itoa(limit)}
}

func Articles(p, limit int) Key { return Key{Resource: ResArticles, Parts: page(p, limit)} }
func MyArticles() Key           { return Key{Resource: ResMyArticles} }
func Article(id string) Key     { return Key{Resource: ResArticle, Parts: []string{id}} }
func Communities(p, l int) Key  { return Key{Resource: ResCommunities, Parts: page(p, l)} }
func MyCommunities() Key        { return Key{Resource: ResMyCommunities} }
func Community(id string) Key   { return Key{Resource: ResCommunity, Parts: []string{id}} }
func Post(id string) Key        { return Key{Resource: ResPost, Parts: []string{id}} }
func LikeCount(postID string) Key {
	return Key{Resource: ResLikeCount, Parts: []string{postID}}
}
func Comments(postID string) Key {
	return Key{Resource: ResComments, Parts: []string{postID}}
}
func Prediction(id string) Key { return Key{Resource: ResPrediction, Parts: []string{id}} }
func PredictionStats() Key     { return Key{Resource: ResPredictionStats} }
func Notifications() Key       { return Key{Resource: ResNotifications} }
func Profile() Key             { return Key{Resource: ResProfile} }
func UserProfile() Key         { return Key{Resource: ResUserProfile} }
func Categories() Key          { return Key{Resource: ResCategories} }
func ProductSuggestions() Key  { return Key{Resource: ResProductSuggestions} }

// ArticlesFiltered keys a filtered page of the article list. The filter hash
// is the trailing part so ByResource(ResArticles) still reaches every page,
// filtered or not.
func ArticlesFiltered(p, limit int, filterHash string) Key {
	return Key{Resource: ResArticles, Parts: append(page(p, limit), filterHash)}
}

// Posts keys a page of a community's post list. The community ID leads the
// parts so Scoped(ResPosts, communityID) can invalidate every cached page.
func Posts(communityID string, p, limit int) Key {
	return Key{Resource: ResPosts, Parts: append([]string{communityID}, page(p, limit)...)}
}

// LikedPosts keys one page of the signed-in user's liked-posts feed.
func LikedPosts(p int) Key {
	return Key{Resource: ResLikedPosts, Parts: []string{strconv.Itoa(p)}}
}

// Predictions keys one page of the predictions feed.
func Predictions(p int) Key {
	return Key{Resource: ResPredictions, Parts: []string{strconv.Itoa(p)}}
}

// ParamsHash folds arbitrary filter parameters into a single stable key part.
// Parameters are normalized through JSON before hashing so logically equal
// filters always land on the same cache entry.
func ParamsHash(params any) (string, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	return crypto.Sha256Hex(string(raw)), nil
}
