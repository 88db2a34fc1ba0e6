package main

import (
	"os"

	"b2redis/activity"
	"b2redis/audit"
	"b2redis/config"
	"b2redis/service"
	"b2redis/store"
)

const auditIndexName = "b2-audit"
const maxRecentOperations = 10

func main() {
	redisClient := config.NewRedisClient()

	elasticClient, err := config.NewElasticClient()
	if err != nil {
		panic(err)
	}

	prefix := os.Getenv("B2_KEY_PREFIX")
	accountInfo := store.NewRedisAccountInfo(redisClient, prefix)
	recorder := activity.NewRedisRecorder(redisClient, accountInfo.Prefix(), maxRecentOperations)
	auditLog := audit.NewElasticLog(auditIndexName, elasticClient)

	routes := service.New(accountInfo, recorder, auditLog).SetupRoutes()
	routes.Run()
}
