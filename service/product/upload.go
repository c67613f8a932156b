package product

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"shopify.GO/core/admin"
	"shopify.GO/graphql"
	productEntity "shopify.GO/model/entity/product"
	"shopify.GO/service/media"
)

// BeginUpload asks for one staged target per input. userErrors are returned
// as *admin.UserErrorsError and no targets are handed out.
func BeginUpload(ctx context.Context, cfg admin.Config, inputs ...productEntity.StagedUploadInput) ([]productEntity.StagedTarget, error) {
	if len(inputs) == 0 {
		return []productEntity.StagedTarget{}, nil
	}
	// The method is always sent so the recorded target method matches what
	// the upload URL was signed for.
	sent := make([]productEntity.StagedUploadInput, len(inputs))
	for i, in := range inputs {
		if in.HTTPMethod == "" {
			in.HTTPMethod = http.MethodPut
		}
		sent[i] = in
	}
	res := admin.Execute(ctx, cfg, admin.Request{
		Query:         graphql.StagedUploadsCreateMutation,
		OperationName: "StagedUploadsCreate",
		Variables:     map[string]interface{}{"input": sent},
	})
	var payload struct {
		StagedTargets []productEntity.StagedTarget `mapstructure:"stagedTargets"`
		UserErrors    []admin.UserError            `mapstructure:"userErrors"`
	}
	if err := res.Decode("stagedUploadsCreate", &payload); err != nil {
		return nil, fmt.Errorf("stagedUploadsCreate: %w", err)
	}
	if err := admin.CheckUserErrors("stagedUploadsCreate", payload.UserErrors); err != nil {
		return nil, err
	}
	if len(payload.StagedTargets) != len(inputs) {
		return nil, fmt.Errorf("stagedUploadsCreate: asked for %d targets, got %d", len(inputs), len(payload.StagedTargets))
	}
	for i := range payload.StagedTargets {
		payload.StagedTargets[i].Method = sent[i].HTTPMethod
	}
	return payload.StagedTargets, nil
}

// PutBytes sends f to the target's upload URL in a single request. PUT
// targets get every staged parameter as a header; POST targets get them as
// form fields ahead of the file part. Any non-2xx answer is an error.
func PutBytes(ctx context.Context, client *http.Client, target productEntity.StagedTarget, f *media.File) error {
	if client == nil {
		client = http.DefaultClient
	}
	var (
		req *http.Request
		err error
	)
	switch target.Method {
	case http.MethodPut:
		req, err = http.NewRequestWithContext(ctx, http.MethodPut, target.URL, bytes.NewReader(f.Data))
		if err != nil {
			return fmt.Errorf("build upload request: %w", err)
		}
		req.Header.Set("Content-Type", f.MimeType)
		for _, p := range target.Parameters {
			req.Header.Set(p.Name, p.Value)
			if p.Name == "content_type" {
				req.Header.Set("Content-Type", p.Value)
			}
		}
	default:
		body, contentType, err := multipartBody(target.Parameters, f)
		if err != nil {
			return err
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, target.URL, body)
		if err != nil {
			return fmt.Errorf("build upload request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &admin.TransportError{Err: fmt.Errorf("upload %s: %w", f.Name, err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &admin.TransportError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return nil
}

func multipartBody(params []productEntity.StagedParameter, f *media.File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range params {
		if err := w.WriteField(p.Name, p.Value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", p.Name, err)
		}
	}
	part, err := w.CreateFormFile("file", f.Name)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
