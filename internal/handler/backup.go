package handler

import (
	"net/http"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/middleware"
	"tiendapos/internal/service"
	"tiendapos/internal/worker"

	"github.com/gin-gonic/gin"
)

type BackupHandler struct {
	svc        service.BackupService
	dispatcher *worker.Dispatcher
	backupDir  string
}

func NewBackupHandler(svc service.BackupService, dispatcher *worker.Dispatcher, backupDir string) *BackupHandler {
	return &BackupHandler{svc: svc, dispatcher: dispatcher, backupDir: backupDir}
}

// Export streams the full database snapshot as JSON. The mobile client
// stores it wherever the user points it (SD card, cloud drive).
func (h *BackupHandler) Export(c *gin.Context) {
	snap, err := h.svc.ExportAllTables(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Import replaces the entire database content with the uploaded
// snapshot. Destructive — admin only, all tables swapped in one
// transaction.
func (h *BackupHandler) Import(c *gin.Context) {
	var snap dto.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid snapshot: "+err.Error()))
		return
	}
	if err := h.svc.ImportAllTables(c.Request.Context(), &snap); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Run writes a snapshot file server-side. With Redis configured the job
// goes through the worker pool; otherwise it runs inline.
func (h *BackupHandler) Run(c *gin.Context) {
	requestedBy := ""
	if claims := middleware.GetClaims(c); claims != nil {
		requestedBy = claims.Username
	}

	if h.dispatcher != nil {
		payload := worker.BackupJobPayload{RequestedBy: requestedBy}
		if err := h.dispatcher.EnqueueBackup(c.Request.Context(), payload); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"queued": true})
		return
	}

	path, err := h.svc.WriteSnapshotFile(c.Request.Context(), h.backupDir)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queued": false, "path": path})
}
