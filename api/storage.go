package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/helpinghub/volunteer-backend/errors"
	"github.com/helpinghub/volunteer-backend/objectstorage"
)

// uploadImageHandler uploads one or more images through a multipart form.
// The request must contain at least one file field. It returns the public
// URLs of the stored images.
func (a *API) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	if a.objectStorage == nil {
		errors.ErrInternalStorageError.Withf("object storage not available").Write(w)
		return
	}
	// 32 MB is the default used by FormFile() function
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		errors.ErrStorageInvalidObject.Withf("could not parse form: %v", err).Write(w)
		return
	}
	filesFound := false
	var returnURLs []string
	for _, fileHeaders := range r.MultipartForm.File {
		for _, fileHeader := range fileHeaders {
			file, err := fileHeader.Open()
			if err != nil {
				errors.ErrStorageInvalidObject.Withf("cannot open file %s: %v", fileHeader.Filename, err).Write(w)
				return
			}
			filesFound = true
			objectName, err := a.objectStorage.Put(file, fileHeader.Size, user.Email)
			if closeErr := file.Close(); closeErr != nil {
				errors.ErrInternalStorageError.Withf("cannot close file %s: %v", fileHeader.Filename, closeErr).Write(w)
				return
			}
			if err != nil {
				if err == objectstorage.ErrFileTypeNotSupported {
					errors.ErrStorageInvalidObject.Withf("%s: %v", fileHeader.Filename, err).Write(w)
					return
				}
				errors.ErrInternalStorageError.Withf("%s: %v", fileHeader.Filename, err).Write(w)
				return
			}
			returnURLs = append(returnURLs, a.objectStorage.URL(objectName))
		}
	}
	if !filesFound {
		errors.ErrStorageInvalidObject.With("no files found").Write(w)
		return
	}
	httpWriteJSON(w, map[string][]string{"urls": returnURLs})
}

// downloadImageHandler serves a stored image inline.
func (a *API) downloadImageHandler(w http.ResponseWriter, r *http.Request) {
	if a.objectStorage == nil {
		errors.ErrInternalStorageError.Withf("object storage not available").Write(w)
		return
	}
	objectName := chi.URLParam(r, "objectName")
	if objectName == "" {
		errors.ErrMalformedURLParam.With("objectName is required").Write(w)
		return
	}
	objectID, ok := objectstorage.ObjectIDFromName(objectName)
	if !ok {
		errors.ErrStorageInvalidObject.With("invalid objectName").Write(w)
		return
	}
	object, err := a.objectStorage.Get(objectID)
	if err != nil {
		if err == objectstorage.ErrObjectNotFound {
			errors.ErrStorageInvalidObject.With("object not found").Write(w)
			return
		}
		errors.ErrInternalStorageError.Withf("cannot get object: %v", err).Write(w)
		return
	}
	w.Header().Set("Content-Type", object.ContentType)
	w.Header().Set("Content-Disposition", "inline")
	if _, err := w.Write(object.Data); err != nil {
		errors.ErrInternalStorageError.Withf("cannot write object: %v", err).Write(w)
		return
	}
}
