package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/greengenius/greengenius/db"
	"github.com/greengenius/greengenius/internal/handlers"
	"github.com/greengenius/greengenius/internal/models"
	"github.com/greengenius/greengenius/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultCovers = []string{
	"https://images.unsplash.com/photo-1463320726281-696a485928c7?auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1459416493396-b6b9372901c0?auto=format&fit=crop&w=800&q=80",
}

func TestCommunities(t *testing.T) {
	ts := newTestServer(t, false)
	adaToken, adaID := ts.register(t, "ada@example.com")
	bobToken, _ := ts.register(t, "bob@example.com")

	rec := ts.do(t, http.MethodPost, "/api/communities", adaToken, gin.H{
		"name": "Fern Lovers", "description": "All things ferns", "isPrivate": false, "tags": "ferns, shade ,",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	public := decode[types.CommunityResponse](t, rec)
	assert.Equal(t, 1, public.Members)
	assert.Equal(t, []uint{adaID}, public.Admins)
	assert.Equal(t, adaID, public.CreatedBy)
	assert.Equal(t, []string{"ferns", "shade"}, public.Tags)
	assert.Contains(t, defaultCovers, public.ImageURL)
	assert.True(t, public.IsMember)
	assert.Empty(t, public.JoinCode)

	rec = ts.do(t, http.MethodPost, "/api/communities", adaToken, gin.H{
		"name": "Secret Garden", "imageUrl": "https://img/garden.jpg", "isPrivate": true, "tags": []string{"rare"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	private := decode[types.CommunityResponse](t, rec)
	assert.Regexp(t, `^[0-9A-Z]{6}$`, private.JoinCode)
	assert.Equal(t, "https://img/garden.jpg", private.ImageURL)
	assert.Equal(t, []string{"rare"}, private.Tags)

	privatePath := fmt.Sprintf("/api/communities/%d", private.ID)

	t.Run("join code hidden from non admins", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/communities", bobToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		communities := decode[[]types.CommunityResponse](t, rec)
		require.Len(t, communities, 2)
		for _, c := range communities {
			assert.Empty(t, c.JoinCode)
			assert.False(t, c.IsMember)
		}

		rec = ts.do(t, http.MethodGet, privatePath, adaToken, nil)
		assert.Equal(t, private.JoinCode, decode[types.CommunityResponse](t, rec).JoinCode)
	})

	t.Run("join private community", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, privatePath+"/join", bobToken, gin.H{"joinCode": "WRONG1"})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = ts.do(t, http.MethodPost, privatePath+"/join", bobToken, gin.H{"joinCode": private.JoinCode})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		joined := decode[types.CommunityResponse](t, rec)
		assert.Equal(t, 2, joined.Members)
		assert.True(t, joined.IsMember)

		rec = ts.do(t, http.MethodPost, privatePath+"/join", bobToken, gin.H{"joinCode": private.JoinCode})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2, decode[types.CommunityResponse](t, rec).Members)
	})

	t.Run("join public community without body", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, fmt.Sprintf("/api/communities/%d/join", public.ID), bobToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 2, decode[types.CommunityResponse](t, rec).Members)
	})

	t.Run("leave", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, privatePath+"/leave", bobToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, decode[types.CommunityResponse](t, rec).Members)

		rec = ts.do(t, http.MethodPost, privatePath+"/leave", bobToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := ts.do(t, http.MethodDelete, privatePath, bobToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = ts.do(t, http.MethodDelete, privatePath, adaToken, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = ts.do(t, http.MethodGet, privatePath, adaToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/communities/abc", adaToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPosts(t *testing.T) {
	ts := newTestServer(t, false)
	adaToken, adaID := ts.register(t, "ada@example.com")
	bobToken, bobID := ts.register(t, "bob@example.com")
	carolToken, _ := ts.register(t, "carol@example.com")

	rec := ts.do(t, http.MethodPost, "/api/communities", adaToken, gin.H{"name": "Fern Lovers"})
	require.Equal(t, http.StatusCreated, rec.Code)
	community := decode[types.CommunityResponse](t, rec)

	base := fmt.Sprintf("/api/communities/%d/posts", community.ID)

	rec = ts.do(t, http.MethodPost, base, bobToken, gin.H{"content": "Hello"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, fmt.Sprintf("/api/communities/%d/join", community.ID), bobToken, nil).Code)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, fmt.Sprintf("/api/communities/%d/join", community.ID), carolToken, nil).Code)

	rec = ts.do(t, http.MethodPost, base, bobToken, gin.H{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, base, bobToken, gin.H{"content": "My fern unfurled!"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	post := decode[types.PostResponse](t, rec)
	assert.Equal(t, bobID, post.Author.ID)
	assert.Equal(t, "bob", post.Author.DisplayName)

	postPath := fmt.Sprintf("%s/%d", base, post.ID)

	rec = ts.do(t, http.MethodPost, postPath+"/comments", adaToken, gin.H{"content": "Beautiful"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Beautiful", decode[types.CommentResponse](t, rec).Content)

	rec = ts.do(t, http.MethodPost, postPath+"/comments", adaToken, gin.H{"content": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	t.Run("like toggles", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, postPath+"/like", adaToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"liked":true,"likes":1}`, rec.Body.String())

		rec = ts.do(t, http.MethodGet, base, adaToken, nil)
		posts := decode[[]types.PostResponse](t, rec)
		require.Len(t, posts, 1)
		assert.True(t, posts[0].IsLiked)
		assert.Equal(t, []uint{adaID}, posts[0].LikedBy)
		assert.Equal(t, 1, posts[0].Likes)
		require.Len(t, posts[0].Comments, 1)
		assert.Equal(t, adaID, posts[0].Comments[0].Author.ID)

		rec = ts.do(t, http.MethodGet, base, bobToken, nil)
		assert.False(t, decode[[]types.PostResponse](t, rec)[0].IsLiked)

		rec = ts.do(t, http.MethodPost, postPath+"/like", adaToken, nil)
		assert.JSONEq(t, `{"liked":false,"likes":0}`, rec.Body.String())
	})

	t.Run("newest first", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, base, carolToken, gin.H{"content": "Second"})
		require.Equal(t, http.StatusCreated, rec.Code)

		posts := decode[[]types.PostResponse](t, ts.do(t, http.MethodGet, base, adaToken, nil))
		require.Len(t, posts, 2)
		assert.Equal(t, "Second", posts[0].Content)
	})

	t.Run("delete permissions", func(t *testing.T) {
		rec := ts.do(t, http.MethodDelete, postPath, carolToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = ts.do(t, http.MethodDelete, postPath, adaToken, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = ts.do(t, http.MethodPost, postPath+"/like", adaToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPrivateCommunityFeed(t *testing.T) {
	ts := newTestServer(t, false)
	adaToken, _ := ts.register(t, "ada@example.com")
	eveToken, _ := ts.register(t, "eve@example.com")

	rec := ts.do(t, http.MethodPost, "/api/communities", adaToken, gin.H{"name": "Secret Garden", "isPrivate": true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	community := decode[types.CommunityResponse](t, rec)

	base := fmt.Sprintf("/api/communities/%d/posts", community.ID)

	rec = ts.do(t, http.MethodPost, base, adaToken, gin.H{"content": "members only"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	postPath := fmt.Sprintf("%s/%d", base, decode[types.PostResponse](t, rec).ID)

	t.Run("non members are turned away", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, base, eveToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.NotContains(t, rec.Body.String(), "members only")

		assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPost, postPath+"/comments", eveToken, gin.H{"content": "hi"}).Code)
		assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPost, postPath+"/like", eveToken, nil).Code)

		var comments, likes int64
		require.NoError(t, db.DB.Model(&models.Comment{}).Count(&comments).Error)
		require.NoError(t, db.DB.Model(&models.PostLike{}).Count(&likes).Error)
		assert.Zero(t, comments)
		assert.Zero(t, likes)
	})

	t.Run("non members cannot subscribe", func(t *testing.T) {
		server := httptest.NewServer(ts.router)
		defer server.Close()

		wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/ws"
		topic := fmt.Sprintf("posts:%d", community.ID)

		_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?topics="+topic+"&token="+eveToken, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		_, resp, err = websocket.DefaultDialer.Dial(wsURL+"?topics=posts:9999&token="+eveToken, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?topics="+topic+"&token="+adaToken, nil)
		require.NoError(t, err)
		conn.Close()
	})

	t.Run("members see the feed after joining", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, fmt.Sprintf("/api/communities/%d", community.ID), adaToken, nil)
		joinCode := decode[types.CommunityResponse](t, rec).JoinCode

		rec = ts.do(t, http.MethodPost, fmt.Sprintf("/api/communities/%d/join", community.ID), eveToken, gin.H{"joinCode": joinCode})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = ts.do(t, http.MethodGet, base, eveToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]types.PostResponse](t, rec), 1)

		assert.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, postPath+"/comments", eveToken, gin.H{"content": "hi"}).Code)
		assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, postPath+"/like", eveToken, nil).Code)
	})
}

// seedCommunity creates a public community owned by owner with one member
// post carrying a comment and a like.
func (ts *testServer) seedCommunity(t *testing.T, ownerToken, memberToken, name string) uint {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/api/communities", ownerToken, gin.H{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[types.CommunityResponse](t, rec).ID

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, fmt.Sprintf("/api/communities/%d/join", id), memberToken, nil).Code)

	base := fmt.Sprintf("/api/communities/%d/posts", id)
	rec = ts.do(t, http.MethodPost, base, memberToken, gin.H{"content": "New leaf"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	postPath := fmt.Sprintf("%s/%d", base, decode[types.PostResponse](t, rec).ID)

	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, postPath+"/comments", ownerToken, gin.H{"content": "Lovely"}).Code)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, postPath+"/like", ownerToken, nil).Code)

	return id
}

func countRows(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()

	var count int64
	tx := db.DB.Unscoped().Model(model)

	if query != "" {
		tx = tx.Where(query, args...)
	}

	require.NoError(t, tx.Count(&count).Error)
	return count
}

func TestWipeAllCommunities(t *testing.T) {
	ts := newTestServer(t, false)
	adaToken, _ := ts.register(t, "ada@example.com")
	bobToken, _ := ts.register(t, "bob@example.com")

	ts.seedCommunity(t, adaToken, bobToken, "Fern Lovers")
	ts.seedCommunity(t, adaToken, bobToken, "Cactus Club")

	require.EqualValues(t, 2, countRows(t, &models.Community{}, ""))
	require.EqualValues(t, 4, countRows(t, &models.CommunityMember{}, ""))

	removed, err := handlers.WipeAllCommunities()
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	for _, model := range []any{&models.Community{}, &models.CommunityMember{}, &models.Post{}, &models.Comment{}, &models.PostLike{}} {
		assert.Zero(t, countRows(t, model, ""), "%T rows left", model)
	}

	removed, err = handlers.WipeAllCommunities()
	require.NoError(t, err)
	assert.Zero(t, removed)

	rec := ts.do(t, http.MethodGet, "/api/communities", adaToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]types.CommunityResponse](t, rec))
}

func TestDeleteCommunityRemovesFeed(t *testing.T) {
	ts := newTestServer(t, false)
	adaToken, _ := ts.register(t, "ada@example.com")
	bobToken, _ := ts.register(t, "bob@example.com")

	doomed := ts.seedCommunity(t, adaToken, bobToken, "Fern Lovers")
	kept := ts.seedCommunity(t, adaToken, bobToken, "Cactus Club")

	var doomedPosts []uint
	require.NoError(t, db.DB.Model(&models.Post{}).Where("community_id = ?", doomed).Pluck("id", &doomedPosts).Error)
	require.Len(t, doomedPosts, 1)

	rec := ts.do(t, http.MethodDelete, fmt.Sprintf("/api/communities/%d", doomed), adaToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	assert.Zero(t, countRows(t, &models.Community{}, "id = ?", doomed))
	assert.Zero(t, countRows(t, &models.CommunityMember{}, "community_id = ?", doomed))
	assert.Zero(t, countRows(t, &models.Post{}, "community_id = ?", doomed))
	assert.Zero(t, countRows(t, &models.Comment{}, "post_id IN ?", doomedPosts))
	assert.Zero(t, countRows(t, &models.PostLike{}, "post_id IN ?", doomedPosts))

	assert.EqualValues(t, 1, countRows(t, &models.Community{}, "id = ?", kept))
	assert.EqualValues(t, 2, countRows(t, &models.CommunityMember{}, "community_id = ?", kept))
	assert.EqualValues(t, 1, countRows(t, &models.Post{}, "community_id = ?", kept))
	assert.EqualValues(t, 1, countRows(t, &models.Comment{}, ""))
	assert.EqualValues(t, 1, countRows(t, &models.PostLike{}, ""))
}
