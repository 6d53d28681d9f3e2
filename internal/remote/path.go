package remote

import (
	"fmt"
	"strings"
)

// Path addresses one document in the remote store, following the
// users/{userId}/{collection}/{docId} namespace. The user's own profile
// document is addressed as users/{userId}.
type Path struct {
	UserID     string
	Collection string
	DocID      string
}

// CollectionPath addresses a user-scoped collection for queries and
// subscriptions.
type CollectionPath struct {
	UserID     string
	Collection string
}

const usersCollection = "users"

// UserDoc returns the path of a user's profile document.
func UserDoc(userID string) Path {
	return Path{UserID: userID, Collection: usersCollection, DocID: userID}
}

// Doc returns the path of a document in a user-scoped collection.
func Doc(userID, collection, docID string) Path {
	return Path{UserID: userID, Collection: collection, DocID: docID}
}

// Collection returns the path of a user-scoped collection.
func Collection(userID, collection string) CollectionPath {
	return CollectionPath{UserID: userID, Collection: collection}
}

// UserCollection returns the single-document "collection" holding the
// user's own profile, used to subscribe to profile changes.
func UserCollection(userID string) CollectionPath {
	return CollectionPath{UserID: userID, Collection: usersCollection}
}

// ParsePath parses "users/{uid}/{collection}/{docId}" or "users/{uid}".
func ParsePath(s string) (Path, error) {
	parts := strings.Split(strings.Trim(s, "/"), "/")
	switch {
	case len(parts) == 2 && parts[0] == usersCollection && parts[1] != "":
		return UserDoc(parts[1]), nil
	case len(parts) == 4 && parts[0] == usersCollection && parts[1] != "" && parts[2] != "" && parts[3] != "":
		return Doc(parts[1], parts[2], parts[3]), nil
	default:
		return Path{}, fmt.Errorf("invalid document path %q", s)
	}
}

// ParseCollectionPath parses "users/{uid}/{collection}".
func ParseCollectionPath(s string) (CollectionPath, error) {
	parts := strings.Split(strings.Trim(s, "/"), "/")
	if len(parts) != 3 || parts[0] != usersCollection || parts[1] == "" || parts[2] == "" {
		return CollectionPath{}, fmt.Errorf("invalid collection path %q", s)
	}
	return Collection(parts[1], parts[2]), nil
}

func (p Path) String() string {
	if p.Collection == usersCollection {
		return usersCollection + "/" + p.UserID
	}
	return fmt.Sprintf("%s/%s/%s/%s", usersCollection, p.UserID, p.Collection, p.DocID)
}

func (c CollectionPath) String() string {
	if c.Collection == usersCollection {
		return usersCollection + "/" + c.UserID
	}
	return fmt.Sprintf("%s/%s/%s", usersCollection, c.UserID, c.Collection)
}
