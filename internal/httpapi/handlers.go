package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"

	"github.com/ironsheep/image-bgtools/internal/imaging"
	"github.com/ironsheep/image-bgtools/internal/segment"
	"github.com/ironsheep/image-bgtools/internal/upscale"
)

// TierHeader reports which segmentation tier produced a background result.
const TierHeader = "X-Segmentation-Tier"

// errNoFile is returned by upload when the form has no usable image.
var errNoFile = errors.New("no file uploaded")

// job is one request's staged files inside the work directory.
type job struct {
	input  string
	output string
}

func (j *job) cleanup() {
	for _, p := range []string{j.input, j.output} {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}

// upload stages the "file" form field in the work directory. It writes the
// error response itself and returns nil when the request cannot proceed.
func (s *Server) upload(c *gin.Context) *job {
	limit := s.cfg.MaxUploadBytes
	if c.Request.ContentLength > limit {
		s.tooLarge(c)
		return nil
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.tooLarge(c)
			return nil
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil
	}
	if fh.Size > limit {
		s.tooLarge(c)
		return nil
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil
	}

	id := ksuid.New().String()
	j := &job{
		input:  filepath.Join(s.cfg.WorkDir, "upload_"+id+filepath.Ext(fh.Filename)),
		output: filepath.Join(s.cfg.WorkDir, "result_"+id+".png"),
	}
	if err := c.SaveUploadedFile(fh, j.input); err != nil {
		j.cleanup()
		s.fail(c, fmt.Errorf("failed to stage upload: %w", err))
		return nil
	}
	return j
}

func (s *Server) tooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{
		"error": fmt.Sprintf("File too large (limit %d MB)", s.cfg.MaxUploadBytes>>20),
	})
}

// fail maps an error to a JSON response: caller mistakes become 400,
// everything else 500.
func (s *Server) fail(c *gin.Context, err error) {
	if imaging.IsCallerError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.logger.Error("request failed", "path", c.Request.URL.Path, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal server error",
		"details": err.Error(),
	})
}

// sendPNG streams the result file as an attachment named prefix_<ksuid>.png.
func (s *Server) sendPNG(c *gin.Context, path, prefix string) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.fail(c, fmt.Errorf("failed to read result: %w", err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s.png"`, prefix, ksuid.New().String()))
	c.Data(http.StatusOK, "image/png", data)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   s.version,
		"uptime":    time.Since(s.started).Seconds(),
	})
}

func (s *Server) handleRemoveBackground(c *gin.Context) {
	j := s.upload(c)
	if j == nil {
		return
	}
	defer j.cleanup()

	mode, err := segment.ParseMode(c.DefaultPostForm("backgroundType", string(segment.ModeTransparent)))
	if err != nil {
		s.fail(c, err)
		return
	}
	opts := segment.RemoveBackgroundOptions(mode, c.DefaultPostForm("backgroundColor", segment.DefaultFillColor))

	res, err := s.segmenter.Run(j.input, j.output, opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header(TierHeader, string(res.Tier))
	s.sendPNG(c, j.output, "bg_removed")
}

func (s *Server) handleTransparentBackground(c *gin.Context) {
	j := s.upload(c)
	if j == nil {
		return
	}
	defer j.cleanup()

	raw := c.DefaultPostForm("transparencyLevel", "100")
	level, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.fail(c, fmt.Errorf("%w: transparencyLevel %q is not an integer", imaging.ErrConfiguration, raw))
		return
	}

	res, err := s.segmenter.Run(j.input, j.output, segment.TransparencyOptions(level))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header(TierHeader, string(res.Tier))
	s.sendPNG(c, j.output, "transparent_bg")
}

func (s *Server) handleUpscale(c *gin.Context) {
	j := s.upload(c)
	if j == nil {
		return
	}
	defer j.cleanup()

	factor, err := upscale.ParseFactor(c.DefaultPostForm("upscaleFactor", "2x"))
	if err != nil {
		s.fail(c, err)
		return
	}

	if _, err := s.upscaler.Run(j.input, j.output, factor); err != nil {
		s.fail(c, err)
		return
	}
	s.sendPNG(c, j.output, "upscaled")
}

func (s *Server) handleDetectBackground(c *gin.Context) {
	j := s.upload(c)
	if j == nil {
		return
	}
	defer j.cleanup()

	tolerance := 0
	if raw := strings.TrimSpace(c.PostForm("tolerance")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.fail(c, fmt.Errorf("%w: tolerance %q is not an integer", imaging.ErrConfiguration, raw))
			return
		}
		tolerance = n
	}

	data, err := imaging.ReadInput(j.input)
	if err != nil {
		s.fail(c, err)
		return
	}
	analysis, err := s.segmenter.Analyze(data, tolerance)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}
