package models

import "time"

type LoginLog struct {
	ID         int        `json:"id"`
	AdminID    string     `json:"adminId"`
	AdminName  string     `json:"adminName"`
	Email      string     `json:"email"`
	Role       Role       `json:"role"`
	LoginTime  time.Time  `json:"loginTime"`
	LogoutTime *time.Time `json:"logoutTime,omitempty"`
	IPAddress  string     `json:"ipAddress,omitempty"`
	UserAgent  string     `json:"userAgent,omitempty"`
}
