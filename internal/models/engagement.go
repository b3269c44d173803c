package models

import "ngosocial/internal/engagement"

func votesOf(votes []Vote) []engagement.Vote {
	out := make([]engagement.Vote, 0, len(votes))
	for i := range votes {
		out = append(out, engagement.Vote{Voter: votes[i].Voter(), Type: votes[i].VoteType})
	}
	return out
}

func commentsOf(comments []Comment) []engagement.Comment {
	out := make([]engagement.Comment, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		out = append(out, engagement.Comment{
			ID:      c.ID,
			Author:  c.Author(),
			Votes:   votesOf(c.Votes),
			Replies: commentsOf(c.Replies),
		})
	}
	return out
}

func idsOf[T any](items []T, id func(*T) string) []string {
	out := make([]string, 0, len(items))
	for i := range items {
		out = append(out, id(&items[i]))
	}
	return out
}
