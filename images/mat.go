package images

import (
	"crypto/md5"
	"fmt"

	"gocv.io/x/gocv"
)

// LabelMapToMat converts a label map into a single-channel 8-bit Mat.
//
// **Note: The caller owns the returned Mat and must Close it.**
func LabelMapToMat(m LabelMap) (gocv.Mat, error) {
	if err := m.Validate(); err != nil {
		return gocv.NewMat(), err
	}
	gray := ToGray(m)
	return gocv.NewMatFromBytes(m.Height, m.Width, gocv.MatTypeCV8U, gray.Pix)
}

// ComputeMatChecksum generates a deterministic checksum for a Mat to verify idempotency.
//
// Arguments:
// - mat: The Mat to compute checksum for.
//
// Returns:
// - A hex-encoded MD5 checksum string.
// - An error if the Mat data cannot be read as a continuous byte buffer.
//
// Example:
//
// ```go
//
//	checksum, err := ComputeMatChecksum(mat)
//	if err != nil {
//	    log.Fatalf("Failed to checksum mat: %v", err)
//	}
//	fmt.Printf("Label map checksum: %s\n", checksum)
//
// ```
func ComputeMatChecksum(mat gocv.Mat) (string, error) {
	if mat.Empty() {
		return "empty", nil
	}

	data, err := mat.DataPtrUint8()
	if err != nil {
		return "", fmt.Errorf("read mat data: %w", err)
	}
	hash := md5.New()
	hash.Write(data)
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// FileChecksum reads an 8-bit label image from disk with OpenCV and returns
// its pixel checksum.
func FileChecksum(path string) (string, error) {
	mat := gocv.IMRead(path, gocv.IMReadGrayScale)
	defer mat.Close()
	if mat.Empty() {
		return "", fmt.Errorf("unable to read image %s", path)
	}
	return ComputeMatChecksum(mat)
}

// VerifyLabelPNG checks that the file at path holds exactly the 8-bit
// encoding of m.
//
// Arguments:
//   - path: The written label image.
//   - m: The label ids that were written, before the 8-bit cast.
//
// Returns:
//   - string: The checksum of the file.
//   - error: An error if either side cannot be read or the checksums differ.
func VerifyLabelPNG(path string, m LabelMap) (string, error) {
	mat, err := LabelMapToMat(m)
	if err != nil {
		return "", err
	}
	defer mat.Close()

	want, err := ComputeMatChecksum(mat)
	if err != nil {
		return "", err
	}
	got, err := FileChecksum(path)
	if err != nil {
		return "", err
	}
	if got != want {
		return got, fmt.Errorf("checksum mismatch for %s: file %s, expected %s", path, got, want)
	}
	return got, nil
}
