package service

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the admin API. Account and bucket routes pass through
// the operation-recording middleware; the activity and audit read sides
// stay outside it so inspecting the logs never writes to them.
func (s *Service) SetupRoutes() *gin.Engine {
	routes := gin.Default()

	routes.GET("/activity/:operator", s.RecentActivity)
	routes.GET("/audit", s.SearchAudit)
	routes.GET("/audit/stats", s.AuditStats)

	recordedRoutes := routes.Group("/")
	{
		recordedRoutes.Use(s.RecordOperation)

		recordedRoutes.GET("/account", s.GetAccount)
		recordedRoutes.PUT("/account", s.SetAccount)
		recordedRoutes.DELETE("/account", s.ClearAccount)
		recordedRoutes.POST("/account/reauthorize", s.Reauthorize)
		recordedRoutes.GET("/bucket/:name", s.GetBucket)
		recordedRoutes.PUT("/bucket", s.PutBucket)
		recordedRoutes.DELETE("/bucket/:name", s.DeleteBucket)
		recordedRoutes.POST("/buckets", s.RefreshBuckets)
		recordedRoutes.DELETE("/buckets", s.InvalidateBuckets)
	}

	return routes
}
