package repository

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/user/modelcatalog/internal/apperr"
	"github.com/user/modelcatalog/internal/model"
	"github.com/user/modelcatalog/internal/utils"
)

// RemoteStore 通过远程 HTTP 资源读写
//
//	models:  GET / | GET /?id= | POST / | DELETE /?id=
//	filters: GET / | PUT /
type RemoteStore struct {
	client     *utils.HTTPClient
	modelsURL  string
	filtersURL string
	token      TokenSource
}

// TokenSource 每次请求前取 Bearer 令牌
type TokenSource func(ctx context.Context) (string, error)

// NewRemoteStore 创建远程 Store
func NewRemoteStore(client *utils.HTTPClient, modelsURL, filtersURL string) *RemoteStore {
	return &RemoteStore{
		client:     client,
		modelsURL:  modelsURL,
		filtersURL: filtersURL,
	}
}

// WithToken 请求携带 Authorization: Bearer，远端的写接口需要后台权限
func (s *RemoteStore) WithToken(src TokenSource) *RemoteStore {
	s.token = src
	return s
}

func (s *RemoteStore) do(ctx context.Context, method, url string, body, target interface{}) error {
	var header http.Header
	if s.token != nil {
		token, err := s.token(ctx)
		if err != nil {
			return apperr.ErrAuth.WithCause(err)
		}
		header = http.Header{"Authorization": []string{"Bearer " + token}}
	}
	if err := s.client.Do(ctx, method, url, header, body, target); err != nil {
		return remoteError(err)
	}
	return nil
}

type createModelRequest struct {
	Photos []string `json:"photos"`
	model.Attributes
}

type createModelResponse struct {
	ID int `json:"id"`
}

func (s *RemoteStore) withID(id int) string {
	u, err := url.Parse(s.modelsURL)
	if err != nil {
		return s.modelsURL + "?id=" + strconv.Itoa(id)
	}
	q := u.Query()
	q.Set("id", strconv.Itoa(id))
	u.RawQuery = q.Encode()
	return u.String()
}

// ListModels 列表只含 photosCount，照片需再取详情
func (s *RemoteStore) ListModels(ctx context.Context) ([]model.Model, error) {
	var models []model.Model
	if err := s.do(ctx, http.MethodGet, s.modelsURL, nil, &models); err != nil {
		return nil, err
	}
	if models == nil {
		models = []model.Model{}
	}
	return models, nil
}

func (s *RemoteStore) GetModel(ctx context.Context, id int) (*model.Model, error) {
	var m model.Model
	if err := s.do(ctx, http.MethodGet, s.withID(id), nil, &m); err != nil {
		return nil, err
	}
	m.PhotosCount = len(m.Photos)
	return &m, nil
}

// CreateModel ID 由远端分配
func (s *RemoteStore) CreateModel(ctx context.Context, m model.Model) (model.Model, error) {
	req := createModelRequest{Photos: m.Photos, Attributes: m.Attributes}
	var resp createModelResponse
	if err := s.do(ctx, http.MethodPost, s.modelsURL, req, &resp); err != nil {
		return model.Model{}, err
	}
	m.ID = resp.ID
	m.PhotosCount = len(m.Photos)
	return m, nil
}

func (s *RemoteStore) DeleteModel(ctx context.Context, id int) error {
	if err := s.do(ctx, http.MethodDelete, s.withID(id), nil, nil); err != nil {
		return err
	}
	return nil
}

func (s *RemoteStore) GetFilters(ctx context.Context) (model.FilterCategories, error) {
	var f model.FilterCategories
	if err := s.do(ctx, http.MethodGet, s.filtersURL, nil, &f); err != nil {
		return f, err
	}
	return f, nil
}

func (s *RemoteStore) SaveFilters(ctx context.Context, f model.FilterCategories) error {
	if err := s.do(ctx, http.MethodPut, s.filtersURL, f.Normalize(), nil); err != nil {
		return err
	}
	return nil
}

// remoteError 404 映射为 ErrNotFound，400 映射为校验错误，401/403 映射为 ErrAuth，其余为网络错误
func remoteError(err error) error {
	var se *utils.StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusNotFound:
			return apperr.ErrNotFound.WithMessage("Model not found").WithCause(err)
		case http.StatusBadRequest:
			return apperr.ErrValidation.WithCause(err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperr.ErrAuth.WithMessage("remote rejected credentials").WithCause(err)
		}
	}
	return apperr.Network(err)
}
