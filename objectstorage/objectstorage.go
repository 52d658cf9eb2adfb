// Package objectstorage stores uploaded images (campaign banners,
// testimonial photos) in MongoDB with an in-memory LRU cache in front.
package objectstorage

import (
	"crypto/md5"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/helpinghub/volunteer-backend/db"
)

var (
	// ErrObjectNotFound is returned when the requested object is not found in storage.
	ErrObjectNotFound = fmt.Errorf("object not found")
	// ErrInvalidObjectID is returned when the provided object ID is invalid or empty.
	ErrInvalidObjectID = fmt.Errorf("invalid object ID")
	// ErrFileTypeNotSupported is returned when the file type is not in the supported types list.
	ErrFileTypeNotSupported = fmt.Errorf("file type not supported")
)

// objectNameRgx matches an object name of the form "<hex id>.<extension>".
var objectNameRgx = regexp.MustCompile(`^([a-zA-Z0-9]+)\.(jpg|jpeg|png)`)

// ObjectFileType represents the MIME type of a stored object file.
type ObjectFileType string

const (
	FileTypeJPEG ObjectFileType = "image/jpeg"
	FileTypePNG  ObjectFileType = "image/png"
	FileTypeJPG  ObjectFileType = "image/jpg"
)

// DefaultSupportedFileTypes is a map of file types that are supported by default.
var DefaultSupportedFileTypes = map[ObjectFileType]bool{
	FileTypeJPEG: true,
	FileTypePNG:  true,
	FileTypeJPG:  true,
}

// Config holds the configuration for the object storage client. It includes
// the MongoDB storage, supported file types, and the public server URL used
// to build download links.
type Config struct {
	DB             *db.MongoStorage
	SupportedTypes []ObjectFileType
	ServerURL      string
}

// Client provides functionality for storing and retrieving objects. It uses
// MongoDB for storage and an LRU cache to keep hot images out of the database.
type Client struct {
	db             *db.MongoStorage
	supportedTypes map[ObjectFileType]bool
	cache          *lru.Cache[string, db.Object]
	ServerURL      string
}

// New initializes a new object storage client with the provided configuration.
func New(conf *Config) (*Client, error) {
	if conf == nil || conf.DB == nil {
		return nil, fmt.Errorf("invalid object storage configuration")
	}
	supportedTypes := DefaultSupportedFileTypes
	for _, t := range conf.SupportedTypes {
		supportedTypes[t] = true
	}
	cache, err := lru.New[string, db.Object](256)
	if err != nil {
		return nil, fmt.Errorf("cannot create cache: %w", err)
	}
	return &Client{
		db:             conf.DB,
		supportedTypes: supportedTypes,
		cache:          cache,
		ServerURL:      conf.ServerURL,
	}, nil
}

// Get retrieves an object from storage by its ID. It first checks the cache,
// and if not found, retrieves it from the database.
func (osc *Client) Get(objectID string) (*db.Object, error) {
	if objectID == "" {
		return nil, ErrInvalidObjectID
	}
	if object, ok := osc.cache.Get(objectID); ok {
		return &object, nil
	}
	object, err := osc.db.Object(objectID)
	if err != nil {
		if err == db.ErrNotFound {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("error retrieving object: %w", err)
	}
	osc.cache.Add(objectID, *object)
	return object, nil
}

// Put stores an image uploaded by a user. The object ID is derived from the
// content, so uploading the same image twice yields the same name. It returns
// the object name ("<id>.<extension>") used to download it.
func (osc *Client) Put(data io.Reader, size int64, userEmail string) (string, error) {
	buff := make([]byte, size)
	if _, err := io.ReadFull(data, buff); err != nil {
		return "", fmt.Errorf("cannot read file: %w", err)
	}
	// only images are allowed, detected from the content itself
	filetype := http.DetectContentType(buff)
	if !osc.supportedTypes[ObjectFileType(filetype)] {
		return "", ErrFileTypeNotSupported
	}
	fileExtension := strings.Split(filetype, "/")[1]

	objectID := calculateObjectID(buff)
	if err := osc.db.SetObject(objectID, userEmail, filetype, buff); err != nil {
		return "", fmt.Errorf("cannot set object: %w", err)
	}
	return fmt.Sprintf("%s.%s", objectID, fileExtension), nil
}

// URL returns the public download URL for the object with the given name.
func (osc *Client) URL(objectName string) string {
	return fmt.Sprintf("%s/storage/%s", osc.ServerURL, objectName)
}

// ObjectIDFromName extracts the object ID from an object name. It returns
// false when the name does not follow the "<id>.<extension>" form.
func ObjectIDFromName(name string) (string, bool) {
	match := objectNameRgx.FindStringSubmatch(name)
	if len(match) != 3 {
		return "", false
	}
	return match[1], true
}

// calculateObjectID derives the object ID from the content: the hex encoding
// of the first 12 bytes of its md5 hash.
func calculateObjectID(data []byte) string {
	md5hash := md5.New()
	md5hash.Write(data)
	return fmt.Sprintf("%x", md5hash.Sum(nil)[:12])
}
