package service

import (
	"net/http"
	"time"

	"b2redis/activity"
	"b2redis/audit"
	"b2redis/models"
	"b2redis/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Service exposes the shared credential store and bucket cache to operators
// over HTTP.
type Service struct {
	Store    *store.RedisAccountInfo
	Recorder activity.Recorder
	AuditLog audit.Log
}

// New creates a Service over the given store, activity recorder and audit log.
func New(accountInfo *store.RedisAccountInfo, recorder activity.Recorder, auditLog audit.Log) *Service {
	return &Service{Store: accountInfo, Recorder: recorder, AuditLog: auditLog}
}

func abortWithStoreError(c *gin.Context, err error) {
	switch {
	case models.IsErrNoAccountInfo(err), models.IsErrNoSuchBucket(err):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case models.IsErrTxConflict(err):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": err.Error()})
	case models.IsErrStoreUnavailable(err):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"message": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}

// recordAudit indexes a mutation event. A broken audit index never fails the
// mutation itself.
func (s *Service) recordAudit(c *gin.Context, action, bucketName string) {
	s.AuditLog.Record(models.AuditEvent{
		ID:         uuid.New().String(),
		Action:     action,
		BucketName: bucketName,
		Operator:   c.Query("operator"),
		Timestamp:  time.Now().UTC(),
	})
}

func (s *Service) GetAccount(c *gin.Context) {
	info, err := s.Store.GetAccountInfo()

	if err != nil {
		abortWithStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, info.Redacted())
}

func (s *Service) SetAccount(c *gin.Context) {
	var info models.AccountInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := s.Store.SetAccountInfo(&info); err != nil {
		abortWithStoreError(c, err)
		return
	}

	s.recordAudit(c, models.ActionSetAccount, "")
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func (s *Service) ClearAccount(c *gin.Context) {
	if err := s.Store.Clear(); err != nil {
		abortWithStoreError(c, err)
		return
	}

	s.recordAudit(c, models.ActionClearAccount, "")
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

type reauthorizeRequest struct {
	Account  models.AccountInfo `json:"account" binding:"required"`
	Mappings map[string]string  `json:"mappings"`
}

func (s *Service) Reauthorize(c *gin.Context) {
	var request reauthorizeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := s.Store.Reauthorize(&request.Account, request.Mappings); err != nil {
		abortWithStoreError(c, err)
		return
	}

	s.recordAudit(c, models.ActionReauthorize, "")
	c.JSON(http.StatusOK, gin.H{"status": "reauthorized"})
}

func (s *Service) GetBucket(c *gin.Context) {
	name := c.Param("name")

	id, err := s.Store.GetBucketID(name)
	if err != nil {
		abortWithStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bucket_name": name, "bucket_id": id})
}

type bucketMapping struct {
	BucketName string `json:"bucket_name" binding:"required"`
	BucketID   string `json:"bucket_id" binding:"required"`
}

func (s *Service) PutBucket(c *gin.Context) {
	var mapping bucketMapping
	if err := c.ShouldBindJSON(&mapping); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := s.Store.SaveBucket(mapping.BucketName, mapping.BucketID); err != nil {
		abortWithStoreError(c, err)
		return
	}

	s.recordAudit(c, models.ActionSaveBucket, mapping.BucketName)
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func (s *Service) DeleteBucket(c *gin.Context) {
	name := c.Param("name")

	if err := s.Store.RemoveBucket(name); err != nil {
		abortWithStoreError(c, err)
		return
	}

	s.recordAudit(c, models.ActionRemoveBucket, name)
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

type refreshRequest struct {
	Mappings map[string]string `json:"mappings" binding:"required"`
}

func (s *Service) RefreshBuckets(c *gin.Context) {
	var request refreshRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := s.Store.RefreshBucketCache(request.Mappings); err != nil {
		abortWithStoreError(c, err)
		return
	}

	s.recordAudit(c, models.ActionRefreshCache, "")
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

func (s *Service) InvalidateBuckets(c *gin.Context) {
	if err := s.Store.InvalidateAll(); err != nil {
		abortWithStoreError(c, err)
		return
	}

	s.recordAudit(c, models.ActionInvalidateAll, "")
	c.JSON(http.StatusOK, gin.H{"status": "invalidated"})
}

func (s *Service) RecentActivity(c *gin.Context) {
	operator := c.Param("operator")

	ops, err := s.Recorder.Recent(operator)
	if err != nil {
		abortWithStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, ops)
}

func (s *Service) SearchAudit(c *gin.Context) {
	query := audit.Query{
		Action:     c.Query("action"),
		BucketName: c.Query("bucket"),
	}

	if since := c.Query("since"); since != "" {
		parsed, err := time.Parse(time.RFC3339, since)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		query.Since = parsed
	}
	if until := c.Query("until"); until != "" {
		parsed, err := time.Parse(time.RFC3339, until)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		query.Until = parsed
	}

	events, err := s.AuditLog.Search(query)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, events)
}

func (s *Service) AuditStats(c *gin.Context) {
	stats, err := s.AuditLog.Stats()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// RecordOperation tags each request with an ID and stores it in the
// operator's recent-activity list.
func (s *Service) RecordOperation(c *gin.Context) {
	operator, ok := c.GetQuery("operator")

	if !ok {
		c.Next()
		return
	}

	op := models.Operation{
		RequestID: uuid.New().String(),
		Method:    c.Request.Method,
		Route:     c.Request.URL.Path,
		Timestamp: time.Now().UTC(),
	}

	// Not failing a request if there's a problem recording it
	s.Recorder.Record(operator, op)

	c.Next()
}
