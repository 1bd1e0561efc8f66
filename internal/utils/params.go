package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetServiceID(ctx *gin.Context) (uint64, error) {
	var err error

	serviceIDStr := ctx.Param("service_id")

	if serviceIDStr == "" {
		return 0, errors.New("Service ID not found")
	}

	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid Service ID")
	}

	return serviceID, nil
}
