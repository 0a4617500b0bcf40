package client

import (
	"context"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Chat sends a message to the shop assistant and returns its markdown reply.
func (c *Client) Chat(ctx context.Context, message string, history []ChatMessage) (string, error) {
	var resp chatResponse
	if err := c.post(ctx, "/chat", chatRequest{Message: message, History: history}, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}

type InquiryInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (c *Client) SubmitInquiry(ctx context.Context, in InquiryInput) (*domain.Inquiry, error) {
	var resp inquiryResponse
	if err := c.post(ctx, "/inquiry", in, &resp); err != nil {
		return nil, err
	}
	return &resp.Inquiry, nil
}
