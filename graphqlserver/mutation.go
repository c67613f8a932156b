package graphqlserver

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	_ "github.com/chai2010/webp"
	"github.com/google/uuid"
	gql "github.com/graph-gophers/graphql-go"

	"shopify.GO/model/entity/product"
)

type stagedUploadInput struct {
	Resource   string
	Filename   string
	MimeType   string
	HttpMethod *string
	FileSize   *string
}

func (r *RootResolver) StagedUploadsCreate(ctx context.Context, args struct{ Input []*stagedUploadInput }) *stagedUploadsCreatePayload {
	payload := &stagedUploadsCreatePayload{UserErrors: []*userErrorResolver{}}
	for i, in := range args.Input {
		idx := strconv.Itoa(i)
		if strings.TrimSpace(in.Filename) == "" {
			payload.UserErrors = append(payload.UserErrors, newUserError("Filename can't be blank", "", "input", idx, "filename"))
		}
		if !mimeAllowed(in.Resource, in.MimeType) {
			payload.UserErrors = append(payload.UserErrors, newUserError(
				fmt.Sprintf("%s is not a valid mime type for %s", in.MimeType, in.Resource), "", "input", idx, "mimeType"))
		}
		if in.FileSize != nil {
			if n, err := strconv.ParseInt(*in.FileSize, 10, 64); err != nil || n < 0 {
				payload.UserErrors = append(payload.UserErrors, newUserError("File size is invalid", "", "input", idx, "fileSize"))
			}
		}
	}
	if len(payload.UserErrors) > 0 {
		return payload
	}

	base := baseURLFromContext(ctx)
	targets := make([]*stagedTargetResolver, 0, len(args.Input))
	for _, in := range args.Input {
		method := "PUT"
		if in.HttpMethod != nil {
			method = *in.HttpMethod
		}
		key := uuid.NewString()
		up := &StagedUpload{
			Key:         key,
			Filename:    in.Filename,
			MimeType:    in.MimeType,
			Resource:    in.Resource,
			Method:      method,
			URL:         base + "/uploads/" + key,
			ResourceURL: base + "/tmp/" + key + "/" + url.PathEscape(in.Filename),
			Parameters:  stagedParameters(method, key, in),
		}
		r.store.stage(up)

		target := &stagedTargetResolver{
			URL:         optional(up.URL),
			ResourceURL: optional(up.ResourceURL),
			Parameters:  make([]*parameterResolver, 0, len(up.Parameters)),
		}
		for _, p := range up.Parameters {
			target.Parameters = append(target.Parameters, &parameterResolver{Name: p.Name, Value: p.Value})
		}
		targets = append(targets, target)
	}
	payload.StagedTargets = &targets
	return payload
}

func stagedParameters(method, key string, in *stagedUploadInput) []Parameter {
	if method == "PUT" {
		return []Parameter{
			{Name: "content_type", Value: in.MimeType},
			{Name: "acl", Value: "private"},
		}
	}
	return []Parameter{
		{Name: "Content-Type", Value: in.MimeType},
		{Name: "success_action_status", Value: "201"},
		{Name: "acl", Value: "private"},
		{Name: "key", Value: "tmp/" + key + "/" + in.Filename},
		{Name: "policy", Value: "bW9jay1wb2xpY3k="},
	}
}

func mimeAllowed(resource, mime string) bool {
	switch resource {
	case "IMAGE", "PRODUCT_IMAGE", "SHOP_IMAGE", "COLLECTION_IMAGE":
		return strings.HasPrefix(mime, "image/")
	case "VIDEO":
		return strings.HasPrefix(mime, "video/")
	case "MODEL_3D":
		return strings.HasPrefix(mime, "model/")
	}
	return mime != ""
}

type fileSetInput struct {
	OriginalSource *string
	ContentType    *string
	Alt            *string
	Filename       *string
}

type optionValueSetInput struct {
	Name *string
}

type optionSetInput struct {
	Name     *string
	Position *int32
	Values   *[]*optionValueSetInput
}

type variantOptionValueInput struct {
	OptionName *string
	Name       *string
}

type weightInput struct {
	Value float64
	Unit  string
}

type measurementInput struct {
	Weight *weightInput
}

type inventoryItemInput struct {
	Sku              *string
	Tracked          *bool
	RequiresShipping *bool
	Measurement      *measurementInput
}

type inventoryQuantityInput struct {
	LocationID gql.ID
	Name       string
	Quantity   int32
}

type variantSetInput struct {
	OptionValues        []*variantOptionValueInput
	Price               *string
	CompareAtPrice      *string
	Sku                 *string
	Barcode             *string
	Taxable             *bool
	InventoryItem       *inventoryItemInput
	InventoryQuantities *[]*inventoryQuantityInput
}

type metafieldInput struct {
	Namespace *string
	Key       string
	Value     string
	Type      *string
}

type productSetInput struct {
	Title           *string
	DescriptionHtml *string
	Handle          *string
	ProductType     *string
	Vendor          *string
	Status          *string
	Tags            *[]string
	Files           *[]*fileSetInput
	ProductOptions  *[]*optionSetInput
	Variants        *[]*variantSetInput
	Metafields      *[]*metafieldInput
}

func (r *RootResolver) ProductSet(args struct {
	Input       productSetInput
	Synchronous *bool
}) *productSetPayload {
	in := &args.Input
	payload := &productSetPayload{UserErrors: []*userErrorResolver{}}
	addErr := func(message, code string, field ...string) {
		payload.UserErrors = append(payload.UserErrors, newUserError(message, code, field...))
	}

	if strings.TrimSpace(deref(in.Title)) == "" {
		addErr("Title can't be blank", "BLANK", "input", "title")
	}

	media := make([]product.Media, 0)
	if in.Files != nil {
		for i, f := range *in.Files {
			m, msg := r.fileMedia(f)
			if msg != "" {
				addErr(msg, "INVALID", "input", "files", strconv.Itoa(i), "originalSource")
				continue
			}
			media = append(media, m)
		}
	}

	if in.Metafields != nil {
		for i, m := range *in.Metafields {
			if deref(m.Type) == "" {
				addErr("Type can't be blank", "BLANK", "input", "metafields", strconv.Itoa(i), "type")
			}
		}
	}

	var variantInputs []*variantSetInput
	if in.Variants != nil {
		variantInputs = *in.Variants
	}
	for i, v := range variantInputs {
		if v.InventoryQuantities == nil {
			continue
		}
		for j, q := range *v.InventoryQuantities {
			if _, ok := r.store.location(string(q.LocationID)); !ok {
				addErr("Location does not exist", "INVALID", "input", "variants", strconv.Itoa(i), "inventoryQuantities", strconv.Itoa(j), "locationId")
			}
			if q.Name != "available" && q.Name != "on_hand" {
				addErr("Inventory quantity name is invalid", "INVALID", "input", "variants", strconv.Itoa(i), "inventoryQuantities", strconv.Itoa(j), "name")
			}
		}
	}

	if len(payload.UserErrors) > 0 {
		return payload
	}

	sp := r.store.createProduct(in, media, variantInputs)
	payload.Product = toProductResolver(sp)
	return payload
}

// fileMedia turns one files entry into stored media. A non-empty message is
// a user error.
func (r *RootResolver) fileMedia(f *fileSetInput) (product.Media, string) {
	src := deref(f.OriginalSource)
	if src == "" {
		return product.Media{}, "Original source can't be blank"
	}
	contentType := deref(f.ContentType)
	if contentType == "" {
		contentType = "IMAGE"
	}
	switch contentType {
	case "EXTERNAL_VIDEO":
		return r.externalVideo(src, deref(f.Alt))
	case "IMAGE":
		return r.imageMedia(src, deref(f.Alt))
	}
	return product.Media{}, fmt.Sprintf("Content type %s is not supported", contentType)
}

// imageMedia accepts public URLs and completed staged uploads referenced by
// their resourceUrl.
func (r *RootResolver) imageMedia(src, alt string) (product.Media, string) {
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return product.Media{}, "Image URL is invalid"
	}
	img := &product.Image{URL: src, AltText: alt}
	if strings.Contains(u.Path, "/uploads/") {
		return product.Media{}, "Image URL is a staged upload target, use the resourceUrl"
	}
	if strings.HasPrefix(u.Path, "/tmp/") {
		up, ok := r.store.uploadByResourceURL(src)
		if !ok || !up.Uploaded {
			return product.Media{}, "File at " + src + " was not uploaded"
		}
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(up.Data)); err == nil {
			img.Width, img.Height = cfg.Width, cfg.Height
		}
	}
	r.store.mu.Lock()
	id := r.store.nextID("MediaImage")
	img.ID = r.store.nextID("ImageSource")
	r.store.mu.Unlock()
	return product.Media{ID: id, Alt: alt, MediaContentType: "IMAGE", Status: "READY", Image: img}, ""
}

var (
	vimeoID   = regexp.MustCompile(`vimeo\.com/(?:video/)?(\d+)`)
	youtubeID = regexp.MustCompile(`(?:youtube\.com/(?:watch\?v=|embed/)|youtu\.be/)([\w-]{6,})`)
)

func (r *RootResolver) externalVideo(src, alt string) (product.Media, string) {
	var embed, host string
	if m := vimeoID.FindStringSubmatch(src); m != nil {
		embed, host = "https://player.vimeo.com/video/"+m[1], "VIMEO"
	} else if m := youtubeID.FindStringSubmatch(src); m != nil {
		embed, host = "https://www.youtube.com/embed/"+m[1], "YOUTUBE"
	} else {
		return product.Media{}, "External video URL must be a YouTube or Vimeo link"
	}
	r.store.mu.Lock()
	id := r.store.nextID("ExternalVideo")
	r.store.mu.Unlock()
	return product.Media{ID: id, Alt: alt, MediaContentType: "EXTERNAL_VIDEO", Status: "READY", EmbedURL: embed, Host: host}, ""
}

type publicationInput struct {
	PublicationID *gql.ID
	PublishDate   *string
}

func (r *RootResolver) PublishablePublish(args struct {
	ID    gql.ID
	Input []*publicationInput
}) *publishablePublishPayload {
	payload := &publishablePublishPayload{UserErrors: []*userErrorResolver{}}
	if _, ok := r.store.Product(string(args.ID)); !ok {
		payload.UserErrors = append(payload.UserErrors, newUserError("Publishable does not exist", "", "id"))
		return payload
	}
	pubs := make(map[string]string, len(args.Input))
	for i, in := range args.Input {
		if in.PublicationID == nil || !r.store.publicationExists(string(*in.PublicationID)) {
			payload.UserErrors = append(payload.UserErrors, newUserError("Publication does not exist", "", "input", strconv.Itoa(i), "publicationId"))
			continue
		}
		pubs[string(*in.PublicationID)] = deref(in.PublishDate)
	}
	if len(payload.UserErrors) > 0 {
		return payload
	}
	sp := r.store.publish(string(args.ID), pubs)
	payload.Publishable = &publishableResolver{product: toProductResolver(sp)}
	return payload
}

type createMediaInput struct {
	OriginalSource   string
	Alt              *string
	MediaContentType string
}

func (r *RootResolver) ProductCreateMedia(args struct {
	ProductID gql.ID
	Media     []*createMediaInput
}) *productCreateMediaPayload {
	payload := &productCreateMediaPayload{MediaUserErrors: []*userErrorResolver{}}
	if _, ok := r.store.Product(string(args.ProductID)); !ok {
		payload.MediaUserErrors = append(payload.MediaUserErrors, newUserError("Product does not exist", "PRODUCT_DOES_NOT_EXIST", "productId"))
		return payload
	}

	media := make([]product.Media, 0, len(args.Media))
	for i, in := range args.Media {
		var (
			m   product.Media
			msg string
		)
		switch in.MediaContentType {
		case "EXTERNAL_VIDEO":
			m, msg = r.externalVideo(in.OriginalSource, deref(in.Alt))
		case "IMAGE":
			m, msg = r.imageMedia(in.OriginalSource, deref(in.Alt))
		default:
			msg = fmt.Sprintf("Media content type %s is not supported", in.MediaContentType)
		}
		if msg != "" {
			payload.MediaUserErrors = append(payload.MediaUserErrors, newUserError(msg, "INVALID", "media", strconv.Itoa(i), "originalSource"))
			continue
		}
		media = append(media, m)
	}
	if len(payload.MediaUserErrors) > 0 {
		return payload
	}

	sp := r.store.appendMedia(string(args.ProductID), media)
	created := make([]*mediaResolver, 0, len(media))
	for _, m := range media {
		created = append(created, toMediaResolver(m))
	}
	payload.Media = &created
	payload.Product = toProductResolver(sp)
	return payload
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
