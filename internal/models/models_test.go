package models

import "testing"

func TestArtifactNamePreservesDirectoryPrefix(t *testing.T) {
	p := IndexBuildParameters{VectorPath: "tenant/foo.knnvec", Engine: EngineFAISS}
	if got, want := p.ArtifactName(), "tenant/foo.faiss"; got != want {
		t.Errorf("ArtifactName() = %q, want %q", got, want)
	}
}

func TestArtifactFileNameIsBasename(t *testing.T) {
	p := IndexBuildParameters{VectorPath: "tenant/foo.knnvec", Engine: EngineFAISS}
	if got, want := p.ArtifactFileName(), "foo.faiss"; got != want {
		t.Errorf("ArtifactFileName() = %q, want %q", got, want)
	}
}

func TestArtifactFileNameNoDirectoryPrefix(t *testing.T) {
	p := IndexBuildParameters{VectorPath: "x.knnvec", Engine: EngineFAISS}
	if got, want := p.ArtifactFileName(), "x.faiss"; got != want {
		t.Errorf("ArtifactFileName() = %q, want %q", got, want)
	}
}
