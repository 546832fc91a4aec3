package web

import (
	"net/http"
	"time"

	"github.com/masar-farm/masar/internal/domain"
)

type farmResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location,omitempty"`
	Area        string `json:"area,omitempty"`
	MainCrops   string `json:"mainCrops,omitempty"`
	FarmingType string `json:"farmingType,omitempty"`
	WaterSource string `json:"waterSource,omitempty"`
}

type irrigationResponse struct {
	Tone     string `json:"tone"`
	Label    string `json:"label"`
	DaysLeft int    `json:"daysLeft"`
}

type fieldStatusResponse struct {
	ID             int64              `json:"id"`
	FarmID         int64              `json:"farmId"`
	Name           string             `json:"name"`
	CropType       string             `json:"cropType,omitempty"`
	LastWateringAt *time.Time         `json:"lastWateringAt,omitempty"`
	LatestReport   string             `json:"latestReport,omitempty"`
	LatestRating   *int               `json:"latestRating,omitempty"`
	Irrigation     irrigationResponse `json:"irrigation"`
}

type dashboardResponse struct {
	Farms  []farmResponse        `json:"farms"`
	Fields []fieldStatusResponse `json:"fields"`
}

// handleDashboard returns every farm and field for the caller, each
// field carrying its latest report and a freshly computed irrigation
// status.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	farms, statuses, err := s.inspections.Dashboard(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := dashboardResponse{
		Farms:  make([]farmResponse, 0, len(farms)),
		Fields: make([]fieldStatusResponse, 0, len(statuses)),
	}
	for _, farm := range farms {
		resp.Farms = append(resp.Farms, toFarmResponse(farm))
	}
	for _, status := range statuses {
		resp.Fields = append(resp.Fields, fieldStatusResponse{
			ID:             status.Field.ID,
			FarmID:         status.Field.FarmID,
			Name:           status.Field.Name,
			CropType:       status.Field.CropType,
			LastWateringAt: status.Field.LastWateringAt,
			LatestReport:   status.LatestReport,
			LatestRating:   status.LatestRating,
			Irrigation: irrigationResponse{
				Tone:     string(status.Irrigation.Tone),
				Label:    status.Irrigation.Label,
				DaysLeft: status.Irrigation.DaysLeft,
			},
		})
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func toFarmResponse(farm *domain.Farm) farmResponse {
	return farmResponse{
		ID:          farm.ID,
		Name:        farm.Name,
		Location:    farm.Location,
		Area:        farm.Area,
		MainCrops:   farm.MainCrops,
		FarmingType: farm.FarmingType,
		WaterSource: farm.WaterSource,
	}
}
