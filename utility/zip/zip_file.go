package zip

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ZipFiles bundles the given files into one zip next to the first file
// and returns its path and size. Used for email attachments and for the
// checkpoint archive uploaded at the end of a run.
func ZipFiles(sources []string) (string, int64, error) {
	if len(sources) == 0 {
		return "", 0, fmt.Errorf("no files to zip")
	}
	target := strings.TrimSuffix(sources[0], filepath.Ext(sources[0])) + ".zip"
	zipFile, err := os.Create(target)
	if err != nil {
		return target, 0, err
	}
	defer zipFile.Close()
	zipWriter := zip.NewWriter(zipFile)
	for _, source := range sources {
		err = addFile(zipWriter, source)
		if err != nil {
			zipWriter.Close()
			return target, 0, err
		}
	}
	_ = zipWriter.Close()
	info, err := zipFile.Stat()
	if err != nil {
		return target, 0, err
	}
	return target, info.Size(), nil
}

// ZipDir bundles every regular file under directory, keeping relative
// paths, and writes the archive to target.
func ZipDir(directory string, target string) (int64, error) {
	zipFile, err := os.Create(target)
	if err != nil {
		return 0, err
	}
	defer zipFile.Close()
	zipWriter := zip.NewWriter(zipFile)
	err = filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		relative, err := filepath.Rel(directory, path)
		if err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = relative
		header.Method = zip.Deflate
		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return err
		}
		_, err = io.Copy(writer, file)
		return err
	})
	if err != nil {
		zipWriter.Close()
		return 0, err
	}
	_ = zipWriter.Close()
	info, err := zipFile.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func addFile(zipWriter *zip.Writer, source string) error {
	file, err := os.Open(source)
	if err != nil {
		return err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = info.Name()
	header.Method = zip.Deflate
	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(writer, file)
	return err
}
