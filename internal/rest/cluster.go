package rest

import (
	"net/http"

	"myCourseCompass/pkg/clusters"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type ClusterLister interface {
	All() []clusters.Cluster
}

// ClusterHandler lists the named subject clusters accepted by cluster-points.
type ClusterHandler struct {
	registry ClusterLister
}

func NewClusterHandler(registry ClusterLister) *ClusterHandler {
	return &ClusterHandler{registry: registry}
}

func (h *ClusterHandler) GetClusters(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.registry.All()))
}
