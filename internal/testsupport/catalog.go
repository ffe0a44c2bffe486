package testsupport

// ReferenceUserID is the participant whose logged session anchors the
// end-to-end vectors.
const ReferenceUserID = "ADBKIeixrc"

// ReferenceCatalog returns a fresh copy of the study's eight-video catalog in
// served order.
func ReferenceCatalog() []string {
	return []string{
		"videos/TEMP_TEST.mp4",
		"videos/interpolated_rife_1280_720_30fps.mp4",
		"videos/interpolated_video_addWeighted.mp4",
		"videos/interpolated_video_film.mp4",
		"videos/original_video.mp4",
		"videos/original_video_1280_720.mp4",
		"videos/original_video_upsampled_from_1280_720_to_1920_1080.mp4",
		"videos/video_with_degrad_mk11_1080p.mp4",
	}
}
