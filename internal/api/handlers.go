package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trendfit/domain/collection"
	"trendfit/domain/curve"
	"trendfit/internal/curvefit"
	"trendfit/internal/errors"
	"trendfit/internal/insight"
)

// fitFailed is the only error body a core failure produces
const fitFailed = "Could not compute fit curve"

// seriesRequest is the body of the fit endpoints
type seriesRequest struct {
	X []float64 `json:"x" binding:"required"`
	Y []float64 `json:"y" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleFit fits at the mask from ?polyparams= (or ?mask=) over [min, max]
func (s *Server) handleFit(c *gin.Context) {
	domain, err := parseDomain(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	var mask *curve.Mask
	raw := c.Query("polyparams")
	if raw == "" {
		raw = c.Query("mask")
	}
	if raw != "" {
		m, err := curve.ParseMask(raw)
		if err != nil {
			badRequest(c, err)
			return
		}
		mask = &m
	}

	var body seriesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	sampled, err := s.fitter.CurveFit(curvefit.FitRequest{X: body.X, Y: body.Y, Domain: domain, Mask: mask})
	if err != nil {
		s.fitError(c, err)
		return
	}
	c.JSON(http.StatusOK, sampled)
}

// handleBestFit selects the degree up to ?maxDegree= and fits over [min, max]
func (s *Server) handleBestFit(c *gin.Context) {
	domain, err := parseDomain(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	maxDegree := 0
	if raw := c.Query("maxDegree"); raw != "" {
		maxDegree, err = strconv.Atoi(raw)
		if err != nil || maxDegree < 1 || maxDegree > curve.MaxDegree {
			badRequest(c, fmt.Errorf("maxDegree must be an integer in [1, %d]", curve.MaxDegree))
			return
		}
		if _, err := s.fitter.Candidates(maxDegree); err != nil {
			badRequest(c, err)
			return
		}
	}

	var body seriesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	sampled, sel, err := s.fitter.BestCurveFitDetailed(curvefit.BestFitRequest{X: body.X, Y: body.Y, Domain: domain, MaxDegree: maxDegree})
	if err != nil {
		s.fitError(c, err)
		return
	}
	c.Header("X-Selected-Degree", strconv.Itoa(sel.Degree))
	c.JSON(http.StatusOK, sampled)
}

// handleInsights answers /insights/all with every usable insight keyed by
// type, and /insights/<type> with that insight's data
func (s *Server) handleInsights(c *gin.Context) {
	var coll collection.Collection
	if err := c.ShouldBindJSON(&coll); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Collection could not be parsed."})
		return
	}

	typ := c.Param("type")
	if typ == insight.TypeAll {
		all, err := s.insights.GenerateAll(c.Request.Context(), &coll)
		if err != nil {
			s.logger.Error("[Insights] generation failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate insights"})
			return
		}
		out := make(map[string]map[string]any, len(all))
		for t, ins := range all {
			out[t] = ins.Data
		}
		c.JSON(http.StatusOK, out)
		return
	}

	ins, err := s.insights.Generate(c.Request.Context(), &coll, typ)
	if err != nil {
		if errors.GetCode(err) == errors.CodeNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("[Insights] %s failed: %v", typ, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate insights"})
		return
	}
	c.JSON(http.StatusOK, ins.Data)
}

func (s *Server) fitError(c *gin.Context, err error) {
	s.logger.Warn("[HTTP] %s failed with %s: %v", c.Request.URL.Path, errors.GetCode(err), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fitFailed})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// parseDomain reads the optional ?min= and ?max= bounds
func parseDomain(c *gin.Context) (curve.Domain, error) {
	var d curve.Domain
	for _, b := range []struct {
		name string
		dst  **float64
	}{{"min", &d.Min}, {"max", &d.Max}} {
		raw := c.Query(b.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return curve.Domain{}, errors.InvalidInput(fmt.Sprintf("%s must be a number, got %q", b.name, raw))
		}
		*b.dst = &v
	}
	return d, nil
}
