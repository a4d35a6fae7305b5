package mzml

import (
	"github.com/msspeclib/mzdata/binary"
	"github.com/msspeclib/mzdata/cv"
	"github.com/msspeclib/mzdata/mzerr"
	"github.com/msspeclib/mzdata/spectrum"
)

// PSI-MS accessions this builder reads directly off a <spectrum>'s params
// rather than through a generic lookup table, since each names a single
// fixed semantic rather than a member of a closed enum family.
const (
	accMSLevel            = 1000511
	accPositiveScan       = 1000130
	accNegativeScan       = 1000129
	accProfileSpectrum    = 1000128
	accCentroidSpectrum   = 1000127
	accIsolationTarget    = 1000827
	accIsolationLower     = 1000828
	accIsolationUpper     = 1000829
	accSelectedIonMZ      = 1000744
	accChargeState        = 1000041
	accPeakIntensity      = 1000042
	accScanStartTime      = 1000016
	accFilterString       = 1000512
	accScanWindowLower    = 1000501
	accScanWindowUpper    = 1000500
	accIonMobilityValue   = 1002476
	accDissociationEnergy = 1000045
	accTIC                = 1000285
	accBasePeakIntensity  = 1000504 // reused as BPC marker heuristic
)

// buildSpectrumDescription converts a <spectrumDescription>-equivalent
// set of <scanList>/<precursorList> children (mzML 1.1 flattens these
// directly under <spectrum>) into a spectrum.SpectrumDescription.
func buildSpectrumDescription(specNode *node, groups *cv.GroupTable) spectrum.SpectrumDescription {
	var desc spectrum.SpectrumDescription
	desc.Params, _ = paramsOf(specNode, groups)

	if scanList, ok := specNode.first("scanList"); ok {
		for _, scanNode := range scanList.all("scan") {
			desc.Scans = append(desc.Scans, buildScanDescription(scanNode, groups))
		}
	}
	if precList, ok := specNode.first("precursorList"); ok {
		for _, precNode := range precList.all("precursor") {
			desc.Precursors = append(desc.Precursors, buildPrecursor(precNode, groups))
		}
	}
	return desc
}

func buildScanDescription(scanNode *node, groups *cv.GroupTable) spectrum.ScanDescription {
	params, _ := paramsOf(scanNode, groups)
	var sd spectrum.ScanDescription
	sd.Params = params
	sd.InstrumentConfigurationRef, _ = scanNode.attrs.get("instrumentConfigurationRef")

	for _, p := range params {
		if !p.HasAccession || p.Accession.Vocabulary != cv.VocabMS {
			continue
		}
		switch p.Accession.Accession {
		case accScanStartTime:
			if f, err := p.Value.AsFloat64(); err == nil {
				sd.StartTime, sd.HasStartTime = f, true
			}
		case accFilterString:
			sd.FilterString = p.Value.AsString()
		case accIonMobilityValue:
			if f, err := p.Value.AsFloat64(); err == nil {
				sd.IonMobility, sd.HasIonMobility = f, true
			}
		}
	}

	if winList, ok := scanNode.first("scanWindowList"); ok {
		for _, winNode := range winList.all("scanWindow") {
			winParams, _ := paramsOf(winNode, groups)
			var w spectrum.ScanWindow
			for _, p := range winParams {
				if !p.HasAccession || p.Accession.Vocabulary != cv.VocabMS {
					continue
				}
				switch p.Accession.Accession {
				case accScanWindowLower:
					w.Low, _ = p.Value.AsFloat64()
				case accScanWindowUpper:
					w.High, _ = p.Value.AsFloat64()
				}
			}
			sd.ScanWindows = append(sd.ScanWindows, w)
		}
	}
	return sd
}

func buildPrecursor(precNode *node, groups *cv.GroupTable) spectrum.Precursor {
	var prec spectrum.Precursor
	prec.ParentSpectrumID, _ = precNode.attrs.get("spectrumRef")

	if isoNode, ok := precNode.first("isolationWindow"); ok {
		params, _ := paramsOf(isoNode, groups)
		for _, p := range params {
			if !p.HasAccession || p.Accession.Vocabulary != cv.VocabMS {
				continue
			}
			switch p.Accession.Accession {
			case accIsolationTarget:
				prec.IsolationWindow.Target, _ = p.Value.AsFloat64()
				prec.HasIsolationWindow = true
			case accIsolationLower:
				prec.IsolationWindow.LowerOffset, _ = p.Value.AsFloat64()
			case accIsolationUpper:
				prec.IsolationWindow.UpperOffset, _ = p.Value.AsFloat64()
			}
		}
	}

	if ionList, ok := precNode.first("selectedIonList"); ok {
		for _, ionNode := range ionList.all("selectedIon") {
			ionParams, _ := paramsOf(ionNode, groups)
			var ion spectrum.SelectedIon
			ion.Params = ionParams
			for _, p := range ionParams {
				if !p.HasAccession || p.Accession.Vocabulary != cv.VocabMS {
					continue
				}
				switch p.Accession.Accession {
				case accSelectedIonMZ:
					if f, err := p.Value.AsFloat64(); err == nil {
						ion.MZ, ion.HasMZ = f, true
					}
				case accChargeState:
					if n, err := p.Value.AsInt64(); err == nil {
						ion.Charge, ion.HasCharge = int(n), true
					}
				case accPeakIntensity:
					if f, err := p.Value.AsFloat64(); err == nil {
						ion.Intensity, ion.HasIntensity = f, true
					}
				}
			}
			prec.SelectedIons = append(prec.SelectedIons, ion)
		}
	}

	if actNode, ok := precNode.first("activation"); ok {
		actParams, _ := paramsOf(actNode, groups)
		prec.Activation.Params = actParams
		for _, p := range actParams {
			if p.HasAccession && p.Accession.Vocabulary == cv.VocabMS && p.Accession.Accession == accDissociationEnergy {
				if f, err := p.Value.AsFloat64(); err == nil {
					prec.Activation.DissociationEnergies = append(prec.Activation.DissociationEnergies, f)
				}
			}
		}
	}
	return prec
}

// buildSpectrum converts one <spectrum> node into a spectrum.Spectrum.
func buildSpectrum(specNode *node, groups *cv.GroupTable, dicts *binary.DictionaryTable, index int, detail DetailLevel) (*spectrum.Spectrum, error) {
	id, err := specNode.attrs.require("spectrum", "id")
	if err != nil {
		return nil, err
	}
	defaultArrayLength, _ := specNode.attrs.int("spectrum", "defaultArrayLength", false)

	params, _ := paramsOf(specNode, groups)

	s := &spectrum.Spectrum{ID: id, Index: index}
	for _, p := range params {
		if !p.HasAccession || p.Accession.Vocabulary != cv.VocabMS {
			continue
		}
		switch p.Accession.Accession {
		case accMSLevel:
			if n, err := p.Value.AsInt64(); err == nil {
				s.MSLevel = int(n)
			}
		case accPositiveScan:
			s.Polarity = spectrum.PolarityPositive
		case accNegativeScan:
			s.Polarity = spectrum.PolarityNegative
		case accProfileSpectrum:
			s.Continuity = spectrum.ContinuityProfile
		case accCentroidSpectrum:
			s.Continuity = spectrum.ContinuityCentroid
		}
	}

	s.Description = buildSpectrumDescription(specNode, groups)

	if listNode, ok := specNode.first("binaryDataArrayList"); ok {
		arrays, err := buildBinaryArrayMap(listNode, groups, dicts, defaultArrayLength, detail)
		if err != nil {
			return nil, mzerr.Wrap(mzerr.ErrMalformedXML, "spectrum", id, 0, err.Error())
		}
		if detail != DetailMetadataOnly {
			s.RawArrays = arrays
		}
	}
	return s, nil
}

// buildChromatogram converts one <chromatogram> node into a
// spectrum.Chromatogram.
func buildChromatogram(chromNode *node, groups *cv.GroupTable, dicts *binary.DictionaryTable, index int, detail DetailLevel) (*spectrum.Chromatogram, error) {
	id, err := chromNode.attrs.require("chromatogram", "id")
	if err != nil {
		return nil, err
	}
	defaultArrayLength, _ := chromNode.attrs.int("chromatogram", "defaultArrayLength", false)

	params, _ := paramsOf(chromNode, groups)
	c := &spectrum.Chromatogram{ID: id, Index: index}
	for _, p := range params {
		if !p.HasAccession || p.Accession.Vocabulary != cv.VocabMS {
			continue
		}
		switch p.Accession.Accession {
		case accTIC:
			c.Type = spectrum.ChromatogramTIC
		case accBasePeakIntensity:
			c.Type = spectrum.ChromatogramBPC
		}
	}

	if precList, ok := chromNode.first("precursor"); ok {
		prec := buildPrecursor(precList, groups)
		c.Precursor = &prec
		if c.Type == spectrum.ChromatogramUnknown {
			c.Type = spectrum.ChromatogramSIC
		}
	}

	if listNode, ok := chromNode.first("binaryDataArrayList"); ok {
		arrays, err := buildBinaryArrayMap(listNode, groups, dicts, defaultArrayLength, detail)
		if err != nil {
			return nil, mzerr.Wrap(mzerr.ErrMalformedXML, "chromatogram", id, 0, err.Error())
		}
		if detail != DetailMetadataOnly {
			c.Arrays = arrays
		}
	}
	return c, nil
}
