package models

import (
	"time"

	"github.com/mhrivnak/nutanix-shim/pkg/nutanix"
)

type ImageMetadata struct {
	Name                  string    `json:"name"`
	Description           *string   `json:"description"`
	CreateTime            time.Time `json:"create_time"`
	LastUpdateTime        time.Time `json:"last_update_time"`
	ExtID                 string    `json:"ext_id"`
	ClusterLocationExtIDs []string  `json:"cluster_location_ext_ids"`
	Source                *string   `json:"source"`
	PlacementPolicyStatus *string   `json:"placement_policy_status"`
	OwnerExtID            *string   `json:"owner_ext_id"`
	TenantID              *string   `json:"tenant_id"`
	SizeBytes             int64     `json:"size_bytes"`
	Type                  string    `json:"type"`
}

// ImageFromNutanix projects an image field by field.
//
// Source is the URL for URL-sourced images and the source disk ext id for
// images cloned from a VM disk. PlacementPolicyStatus reports the compliance
// status of the first placement policy that applies, if any.
func ImageFromNutanix(img nutanix.Image) (ImageMetadata, error) {
	const entity = "image"

	switch {
	case img.ExtID == nil:
		return ImageMetadata{}, missing(entity, "extId", nil)
	case img.Name == nil:
		return ImageMetadata{}, missing(entity, "name", img.ExtID)
	case img.Type == nil:
		return ImageMetadata{}, missing(entity, "type", img.ExtID)
	case img.SizeBytes == nil:
		return ImageMetadata{}, missing(entity, "sizeBytes", img.ExtID)
	case img.CreateTime == nil:
		return ImageMetadata{}, missing(entity, "createTime", img.ExtID)
	case img.LastUpdateTime == nil:
		return ImageMetadata{}, missing(entity, "lastUpdateTime", img.ExtID)
	}

	locations := make([]string, len(img.ClusterLocationExtIDs))
	copy(locations, img.ClusterLocationExtIDs)

	out := ImageMetadata{
		Name:                  *img.Name,
		Description:           img.Description,
		CreateTime:            img.CreateTime.UTC(),
		LastUpdateTime:        img.LastUpdateTime.UTC(),
		ExtID:                 *img.ExtID,
		ClusterLocationExtIDs: locations,
		Source:                imageSource(img.Source),
		OwnerExtID:            img.OwnerExtID,
		TenantID:              img.TenantID,
		SizeBytes:             *img.SizeBytes,
		Type:                  string(*img.Type),
	}
	if len(img.PlacementPolicyStatus) > 0 {
		out.PlacementPolicyStatus = img.PlacementPolicyStatus[0].ComplianceStatus
	}
	return out, nil
}

func imageSource(src *nutanix.ImageSource) *string {
	if src == nil {
		return nil
	}
	switch src.ObjectType {
	case nutanix.ImageSourceURL:
		return src.URL
	case nutanix.ImageSourceVMDisk:
		return src.ExtID
	}
	if src.URL != nil {
		return src.URL
	}
	return src.ExtID
}
