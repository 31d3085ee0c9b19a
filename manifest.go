package shinra

// ManifestArchive names one distributed zip archive and the md5 digest its
// content must match before extraction.
type ManifestArchive struct {
	Name string `toml:"name"`
	MD5  string `toml:"md5"`
}

// Manifest lists the archives that make up a dataset distribution.
type Manifest struct {
	Archives []ManifestArchive `toml:"archives"`
}

// Validate returns an error if the manifest contains invalid fields.
func (m *Manifest) Validate() error {
	if len(m.Archives) == 0 {
		return Errorf(EINVALID, "manifest lists no archives")
	}
	for _, archive := range m.Archives {
		if archive.Name == "" {
			return Errorf(EINVALID, "manifest archive name required")
		}
		if len(archive.MD5) != 32 {
			return Errorf(EINVALID, "manifest archive %q: md5 digest must be 32 hex characters", archive.Name)
		}
	}
	return nil
}

// DefaultManifest returns the manifest of the SHINRA 2019 distribution.
func DefaultManifest() *Manifest {
	return &Manifest{
		Archives: []ManifestArchive{
			{Name: "JP-5_20190712.zip", MD5: "d278548f38abb9778d4d24e78487b4fd"},
			{Name: "JP-30_20190712.zip", MD5: "6d4db54cb2a3d047779eb5bda5ac6c49"},
		},
	}
}
