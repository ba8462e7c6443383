package twitter

import "context"

// Convenience wrappers for the most used endpoints. Every other catalog entry
// is reachable through Call.

// UserTimeline fetches statuses posted by a user (onUserTimeline).
func (c *Client) UserTimeline(ctx context.Context, params Params) <-chan Result {
	return c.Call(ctx, "userTimeline", Request{Params: params})
}

// HomeTimeline fetches the authenticating user's home timeline (onHomeTimeline).
func (c *Client) HomeTimeline(ctx context.Context, params Params) <-chan Result {
	return c.Call(ctx, "homeTimeline", Request{Params: params})
}

// FriendsTimeline fetches statuses from followed users (onFriendsTimeline).
func (c *Client) FriendsTimeline(ctx context.Context, params Params) <-chan Result {
	return c.Call(ctx, "friendsTimeline", Request{Params: params})
}

// Mentions fetches statuses mentioning the authenticating user (onMentions).
func (c *Client) Mentions(ctx context.Context, params Params) <-chan Result {
	return c.Call(ctx, "mentions", Request{Params: params})
}

// ShowStatus fetches a single status by id (onShowStatus).
func (c *Client) ShowStatus(ctx context.Context, id string) <-chan Result {
	return c.Call(ctx, "showStatus", Request{Args: []string{id}})
}

// UpdateStatus posts a new status (onUpdateStatus).
func (c *Client) UpdateStatus(ctx context.Context, status string) <-chan Result {
	return c.Call(ctx, "updateStatus", Request{Args: []string{status}})
}

// DestroyStatus deletes one of the user's statuses (onDestroyStatus).
func (c *Client) DestroyStatus(ctx context.Context, id string) <-chan Result {
	return c.Call(ctx, "destroyStatus", Request{Segments: []string{id}})
}

// RetweetStatus retweets a status (onRetweetStatus).
func (c *Client) RetweetStatus(ctx context.Context, id string) <-chan Result {
	return c.Call(ctx, "retweetStatus", Request{Segments: []string{id}})
}

// ShowUser fetches a user; params must carry id, user_id or screen_name (onShowUser).
func (c *Client) ShowUser(ctx context.Context, params Params) <-chan Result {
	return c.Call(ctx, "showUser", Request{Params: params})
}

// Friends fetches the users a user follows with their latest status (onFriends).
func (c *Client) Friends(ctx context.Context, params Params) <-chan Result {
	return c.Call(ctx, "friends", Request{Params: params})
}

// Followers fetches a user's followers with their latest status (onFollowers).
func (c *Client) Followers(ctx context.Context, params Params) <-chan Result {
	return c.Call(ctx, "followers", Request{Params: params})
}

// CreateList creates a list owned by userName; params carry name, mode and description.
func (c *Client) CreateList(ctx context.Context, userName string, params Params) <-chan Result {
	return c.Call(ctx, "createList", Request{Segments: []string{userName}, Params: params})
}

// UpdateList updates the list identified by listID.
func (c *Client) UpdateList(ctx context.Context, userName, listID string, params Params) <-chan Result {
	return c.Call(ctx, "updateList", Request{Segments: []string{userName, listID}, Params: params})
}

// Lists fetches the lists owned by the authenticating user (onLists).
func (c *Client) Lists(ctx context.Context, params Params) <-chan Result {
	return c.Call(ctx, "lists", Request{Params: params})
}

// ShowList fetches a list by id or slug.
func (c *Client) ShowList(ctx context.Context, userName, listID string) <-chan Result {
	return c.Call(ctx, "showList", Request{Segments: []string{userName, listID}})
}

// DestroyList deletes a list owned by userName (onDestroyList).
func (c *Client) DestroyList(ctx context.Context, userName, listID string) <-chan Result {
	return c.Call(ctx, "destroyList", Request{Segments: []string{userName, listID}})
}

// RemoveListMember removes memberID from a list. The call is tunnelled as a
// POST with _method=DELETE so the member id travels in the body (onRemoveListMember).
func (c *Client) RemoveListMember(ctx context.Context, userName, listID, memberID string) <-chan Result {
	return c.Call(ctx, "removeListMember", Request{Segments: []string{userName, listID}, Args: []string{memberID}})
}

// ListTimeline fetches the statuses of a list.
func (c *Client) ListTimeline(ctx context.Context, userName, listName string, params Params) <-chan Result {
	return c.Call(ctx, "listTimeline", Request{Segments: []string{userName, listName}, Params: params})
}

// ListsMemberships fetches the lists userName has been added to.
func (c *Client) ListsMemberships(ctx context.Context, userName string, params Params) <-chan Result {
	return c.Call(ctx, "listsMemberships", Request{Segments: []string{userName}, Params: params})
}

// DirectMessages fetches direct messages sent to the user (onDirectMessages).
func (c *Client) DirectMessages(ctx context.Context, params Params) <-chan Result {
	return c.Call(ctx, "directMessages", Request{Params: params})
}

// SentDirectMessages fetches direct messages the user sent (onSentDirectMessages).
func (c *Client) SentDirectMessages(ctx context.Context, params Params) <-chan Result {
	return c.Call(ctx, "sentDirectMessages", Request{Params: params})
}

// NewDirectMessage sends text to the user with screen name to.
func (c *Client) NewDirectMessage(ctx context.Context, to, text string) <-chan Result {
	return c.Call(ctx, "newDirectMessage", Request{Args: []string{to, text}})
}

// DestroyDirectMessage deletes a direct message (onDestroyDirectMessage).
func (c *Client) DestroyDirectMessage(ctx context.Context, id string) <-chan Result {
	return c.Call(ctx, "destroyDirectMessage", Request{Segments: []string{id}})
}

// FriendsIDs fetches ids of followed users; without id/user_id/screen_name
// the token owner's friends are returned.
func (c *Client) FriendsIDs(ctx context.Context, params Params) <-chan Result {
	return c.Call(ctx, "friendsIds", Request{Params: params})
}

// FollowersIDs is the follower counterpart of FriendsIDs.
func (c *Client) FollowersIDs(ctx context.Context, params Params) <-chan Result {
	return c.Call(ctx, "followersIds", Request{Params: params})
}

// Favorites fetches the user's favorite statuses (onFavorites).
func (c *Client) Favorites(ctx context.Context, params Params) <-chan Result {
	return c.Call(ctx, "favorites", Request{Params: params})
}

// CreateFavorite marks a status as favorite (onCreateFavorite).
func (c *Client) CreateFavorite(ctx context.Context, id string) <-chan Result {
	return c.Call(ctx, "createFavorite", Request{Segments: []string{id}})
}

// DestroyFavorite removes a status from favorites (onDestroyFavorite).
func (c *Client) DestroyFavorite(ctx context.Context, id string) <-chan Result {
	return c.Call(ctx, "destroyFavorite", Request{Segments: []string{id}})
}
