package main

import (
	"context"
	"fmt"

	"github.com/dileep-u-k/quakebot/internal/reply"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// maxReplyMessages is the LINE limit per reply token.
const maxReplyMessages = 5

// LineReplier delivers replies through the LINE Messaging API.
type LineReplier struct {
	api *messaging_api.MessagingApiAPI
}

func NewLineReplier(channelAccessToken string) (*LineReplier, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelAccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE messaging client: %w", err)
	}
	return &LineReplier{api: api}, nil
}

// Reply sends msgs for replyToken. The SDK client carries a single shared
// context, so ctx is not forwarded to it.
func (r *LineReplier) Reply(_ context.Context, replyToken string, msgs []reply.Message) error {
	_, err := r.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   toLineMessages(msgs),
	})
	if err != nil {
		return fmt.Errorf("LINE reply failed: %w", err)
	}
	return nil
}

// toLineMessages converts at most maxReplyMessages messages, clipping long texts.
func toLineMessages(msgs []reply.Message) []messaging_api.MessageInterface {
	if len(msgs) > maxReplyMessages {
		msgs = msgs[:maxReplyMessages]
	}
	out := make([]messaging_api.MessageInterface, 0, len(msgs))
	for _, m := range msgs {
		switch m.Kind {
		case reply.KindImage:
			out = append(out, messaging_api.ImageMessage{
				OriginalContentUrl: m.ImageURL,
				PreviewImageUrl:    m.PreviewURL,
			})
		default:
			out = append(out, messaging_api.TextMessage{
				Text: reply.Clip(m.Text, reply.MaxTextRunes),
			})
		}
	}
	return out
}
