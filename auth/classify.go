package auth

import (
	"strings"

	"github.com/jrsteele09/go-church-gql/graphql"
)

// authFailurePhrases are the messages the API emits when the bearer token is
// missing, malformed or expired. Matching is a case sensitive substring test.
var authFailurePhrases = []string{
	"Not authenticated",
	"Invalid token",
	"Token expired",
	"JWT token is invalid",
	"Authentication credentials were not provided",
}

// IsAuthFailure reports whether any error in resp carries one of the
// recognised authentication failure phrases.
func IsAuthFailure(resp *graphql.Response) bool {
	if resp == nil {
		return false
	}
	for _, e := range resp.Errors {
		if IsAuthFailureMessage(e.Message) {
			return true
		}
	}
	return false
}

func IsAuthFailureMessage(msg string) bool {
	for _, phrase := range authFailurePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
