package converter

import (
	"wrenchway-api/internal/delivery/dto"
	"wrenchway-api/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// UserToSummary converts a User entity to the compact view embedded in bookings
func UserToSummary(user *entity.User) *dto.UserSummary {
	if user == nil {
		return nil
	}

	return &dto.UserSummary{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
	}
}

// TechnicianToResponse converts a technician User to TechnicianResponse DTO
func TechnicianToResponse(user *entity.User) *dto.TechnicianResponse {
	if user == nil {
		return nil
	}

	certifications := []string(user.Certifications)
	if certifications == nil {
		certifications = []string{}
	}

	return &dto.TechnicianResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Phone:          user.Phone,
		Specialization: user.Specialization,
		Experience:     user.Experience,
		Certifications: certifications,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

// TechniciansToResponses converts a slice of technician Users
func TechniciansToResponses(users []entity.User) []dto.TechnicianResponse {
	responses := make([]dto.TechnicianResponse, len(users))
	for i := range users {
		responses[i] = *TechnicianToResponse(&users[i])
	}
	return responses
}

// TechnicianStatsToResponse converts booking counters
func TechnicianStatsToResponse(stats entity.TechnicianStats) *dto.TechnicianStatsResponse {
	return &dto.TechnicianStatsResponse{
		TotalBookings:     stats.TotalBookings,
		CompletedBookings: stats.CompletedBookings,
		ActiveBookings:    stats.ActiveBookings,
	}
}
