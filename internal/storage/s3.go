// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage keeps portal artifacts in S3-compatible object storage.
// Submission texts are archived in a private bucket and reached through
// presigned links. Approved ambassador cards are published as JSON in a
// public bucket for the marketing site.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// DefaultLinkExpiry is the lifetime of presigned archive links.
const DefaultLinkExpiry = 15 * time.Minute

// cardCacheControl lets CDNs hold a published card briefly.
const cardCacheControl = "public, max-age=300"

// Options configures the object storage client.
type Options struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	PublicBucket  string
	PrivateBucket string
	// PublicURL is an optional CDN origin serving PublicBucket.
	PublicURL string
}

// Enabled reports whether opts carry enough to reach a server.
func (o Options) Enabled() bool {
	return o.Endpoint != "" && o.AccessKey != "" && o.SecretKey != ""
}

// Client reads and writes the archive and card buckets.
type Client struct {
	api       *s3.Client
	presigner *s3.PresignClient
	opts      Options
}

// New returns a path-style S3 client. It returns nil, nil when opts are
// not Enabled so the portal can run without storage.
func New(opts Options) (*Client, error) {
	if !opts.Enabled() {
		return nil, nil
	}
	if opts.PrivateBucket == "" {
		return nil, errors.New("storage: private bucket is required")
	}
	opts.Endpoint = strings.TrimRight(opts.Endpoint, "/")
	opts.PublicURL = strings.TrimRight(opts.PublicURL, "/")

	api := s3.New(s3.Options{
		Region:       opts.Region,
		BaseEndpoint: aws.String(opts.Endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		UsePathStyle: true,
	})
	return &Client{api: api, presigner: s3.NewPresignClient(api), opts: opts}, nil
}

// ArchiveKey is the private object key of a submission text.
func ArchiveKey(slug, submissionID string) string {
	return fmt.Sprintf("submissions/%s/%s.txt", slug, submissionID)
}

// CardKey is the public object key of an ambassador card.
func CardKey(slug string) string {
	return fmt.Sprintf("ambassadors/%s.json", slug)
}

// Archive stores a composed submission text privately and returns its key.
func (c *Client) Archive(ctx context.Context, slug, submissionID, text string) (string, error) {
	key := ArchiveKey(slug, submissionID)
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.opts.PrivateBucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(text),
		ContentType: aws.String("text/plain; charset=utf-8"),
		Metadata:    map[string]string{"slug": slug},
	})
	if err != nil {
		return "", fmt.Errorf("archive %s: %w", key, err)
	}
	return key, nil
}

// PublishCard writes card JSON to the public bucket and returns the URL
// it is served from.
func (c *Client) PublishCard(ctx context.Context, slug string, card []byte) (string, error) {
	if c.opts.PublicBucket == "" {
		return "", errors.New("storage: public bucket is not configured")
	}
	key := CardKey(slug)
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.opts.PublicBucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(card),
		ContentLength: aws.Int64(int64(len(card))),
		ContentType:   aws.String("application/json"),
		CacheControl:  aws.String(cardCacheControl),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("publish %s: %w", key, err)
	}
	return c.CardURL(slug), nil
}

// UnpublishCard deletes a published card. Deleting a missing card
// succeeds.
func (c *Client) UnpublishCard(ctx context.Context, slug string) error {
	key := CardKey(slug)
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.opts.PublicBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("unpublish %s: %w", key, err)
	}
	return nil
}

// CardURL is where the published card of slug is served.
func (c *Client) CardURL(slug string) string {
	if c.opts.PublicURL != "" {
		return c.opts.PublicURL + "/" + CardKey(slug)
	}
	return c.opts.Endpoint + "/" + c.opts.PublicBucket + "/" + CardKey(slug)
}

// ArchiveURL presigns a GET of an archived submission text.
func (c *Client) ArchiveURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = DefaultLinkExpiry
	}
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.opts.PrivateBucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}
